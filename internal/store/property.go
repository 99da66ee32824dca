package store

import (
	"context"
	"errors"

	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
)

type Property interface {
	Get(ctx context.Context, id uint) (*model.Property, error)
	Create(ctx context.Context, property model.Property) (*model.Property, error)
}

type PropertyStore struct {
	db *gorm.DB
}

var _ Property = (*PropertyStore)(nil)

func NewPropertyStore(db *gorm.DB) Property {
	return &PropertyStore{db: db}
}

func (p *PropertyStore) Get(ctx context.Context, id uint) (*model.Property, error) {
	var property model.Property
	if err := p.getDB(ctx).First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (p *PropertyStore) Create(ctx context.Context, property model.Property) (*model.Property, error) {
	if err := p.getDB(ctx).Create(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (p *PropertyStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db.WithContext(ctx)
}
