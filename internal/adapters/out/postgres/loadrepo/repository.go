// Package loadrepo reads load reference data used to address notifications
// and EDI messages.
package loadrepo

import (
	"context"
	"errors"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoadDTO struct {
	LoadID      string         `gorm:"type:varchar(128);primaryKey"`
	BrokerID    string         `gorm:"type:varchar(128);index"`
	PartnerIDs  pq.StringArray `gorm:"type:text[]"`
	Shipper     string         `gorm:"type:varchar(255)"`
	Consignee   string         `gorm:"type:varchar(255)"`
	Origin      string         `gorm:"type:varchar(255)"`
	Destination string         `gorm:"type:varchar(255)"`
	BOLNumber   string         `gorm:"column:bol_number;type:varchar(64)"`
}

func (LoadDTO) TableName() string {
	return "loads"
}

func Models() []any {
	return []any{&LoadDTO{}}
}

// GormLoadRepository implements ports.LoadDirectory.
type GormLoadRepository struct {
	db *gorm.DB
}

func NewGormLoadRepository(db *gorm.DB) *GormLoadRepository {
	return &GormLoadRepository{db: db}
}

func (r *GormLoadRepository) GetLoad(ctx context.Context, loadID string) (ports.LoadDetails, error) {
	var dto LoadDTO
	if err := r.db.WithContext(ctx).Where("load_id = ?", loadID).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LoadDetails{}, errs.NewObjectNotFoundError("load", loadID)
		}
		return ports.LoadDetails{}, err
	}
	return toDomain(dto), nil
}

// Save inserts or replaces the load's reference data.
func (r *GormLoadRepository) Save(ctx context.Context, load ports.LoadDetails) error {
	if load.LoadID == "" {
		return errs.NewValueIsRequiredError("loadId")
	}
	dto := fromDomain(load)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func fromDomain(l ports.LoadDetails) LoadDTO {
	return LoadDTO{
		LoadID:      l.LoadID,
		BrokerID:    l.BrokerID,
		PartnerIDs:  pq.StringArray(l.PartnerIDs),
		Shipper:     l.Shipper,
		Consignee:   l.Consignee,
		Origin:      l.Origin,
		Destination: l.Destination,
		BOLNumber:   l.BOLNumber,
	}
}

func toDomain(dto LoadDTO) ports.LoadDetails {
	return ports.LoadDetails{
		LoadID:      dto.LoadID,
		BrokerID:    dto.BrokerID,
		PartnerIDs:  []string(dto.PartnerIDs),
		Shipper:     dto.Shipper,
		Consignee:   dto.Consignee,
		Origin:      dto.Origin,
		Destination: dto.Destination,
		BOLNumber:   dto.BOLNumber,
	}
}
