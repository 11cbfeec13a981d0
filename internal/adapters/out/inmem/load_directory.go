package inmem

import (
	"context"
	"slices"
	"sync"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

type LoadDirectory struct {
	mu    sync.RWMutex
	loads map[string]ports.LoadDetails
}

func NewLoadDirectory(loads ...ports.LoadDetails) *LoadDirectory {
	d := &LoadDirectory{loads: make(map[string]ports.LoadDetails, len(loads))}
	for _, l := range loads {
		d.Put(l)
	}
	return d
}

func (d *LoadDirectory) Put(l ports.LoadDetails) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l.PartnerIDs = slices.Clone(l.PartnerIDs)
	d.loads[l.LoadID] = l
}

func (d *LoadDirectory) GetLoad(_ context.Context, loadID string) (ports.LoadDetails, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	l, ok := d.loads[loadID]
	if !ok {
		return ports.LoadDetails{}, errs.NewObjectNotFoundError("load", loadID)
	}
	l.PartnerIDs = slices.Clone(l.PartnerIDs)
	return l, nil
}
