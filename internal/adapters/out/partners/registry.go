// Package partners holds the EDI trading partner registry, loaded from YAML.
package partners

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"freight/internal/core/domain/model/edi"
	"freight/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

type file struct {
	Partners []entry `yaml:"partners"`
}

type entry struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Active       *bool    `yaml:"active"`
	Transactions []string `yaml:"transactions"`
}

// Registry is a read-mostly set of trading partners keyed by id.
type Registry struct {
	mu       sync.RWMutex
	partners map[string]edi.Partner
}

func NewRegistry(partners ...edi.Partner) *Registry {
	r := &Registry{partners: make(map[string]edi.Partner, len(partners))}
	for _, p := range partners {
		r.partners[p.ID] = clonePartner(p)
	}
	return r
}

// LoadFile reads a registry from a YAML file. An empty path yields an empty registry.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read partners file: %w", err)
	}
	return Parse(data)
}

// Parse decodes the YAML document
//
//	partners:
//	  - id: P1
//	    name: Acme Logistics
//	    transactions: ["204", "214"]
//
// Partners are active unless active: false is set.
func Parse(data []byte) (*Registry, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("partners", err)
	}

	r := NewRegistry()
	var problems []error
	for i, e := range doc.Partners {
		p, err := e.toDomain()
		if err != nil {
			problems = append(problems, fmt.Errorf("partner %d: %w", i, err))
			continue
		}
		if _, dup := r.partners[p.ID]; dup {
			problems = append(problems, fmt.Errorf("partner %d: %w", i, errs.NewValueIsInvalidError("duplicate id "+p.ID)))
			continue
		}
		r.partners[p.ID] = p
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return r, nil
}

func (e entry) toDomain() (edi.Partner, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return edi.Partner{}, errs.NewValueIsRequiredError("id")
	}
	p := edi.Partner{
		ID:     id,
		Name:   e.Name,
		Active: e.Active == nil || *e.Active,
	}
	for _, t := range e.Transactions {
		code, err := edi.ParseTransactionCode(strings.TrimSpace(t))
		if err != nil {
			return edi.Partner{}, err
		}
		if !slices.Contains(p.Transactions, code) {
			p.Transactions = append(p.Transactions, code)
		}
	}
	return p, nil
}

// GetTradingPartner returns the partner or an errs.ErrObjectNotFound error.
func (r *Registry) GetTradingPartner(_ context.Context, partnerID string) (edi.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.partners[partnerID]
	if !ok {
		return edi.Partner{}, errs.NewObjectNotFoundError("trading partner", partnerID)
	}
	return clonePartner(p), nil
}

// Put registers or replaces a partner.
func (r *Registry) Put(p edi.Partner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partners[p.ID] = clonePartner(p)
}

// List returns every partner sorted by id.
func (r *Registry) List() []edi.Partner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]edi.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, clonePartner(p))
	}
	slices.SortFunc(out, func(a, b edi.Partner) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func clonePartner(p edi.Partner) edi.Partner {
	p.Transactions = slices.Clone(p.Transactions)
	return p
}
