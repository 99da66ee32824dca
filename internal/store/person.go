package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"gorm.io/gorm"
)

type Person interface {
	List(ctx context.Context, filter *PersonQueryFilter) (model.PersonList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Person, error)
	Create(ctx context.Context, person model.Person) (*model.Person, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, availability model.Availability) error
}

type PersonStore struct {
	db *gorm.DB
}

// Make sure we conform to Person interface
var _ Person = (*PersonStore)(nil)

func NewPersonStore(db *gorm.DB) Person {
	return &PersonStore{db: db}
}

// List returns the persons matching filter ordered by name.
func (p *PersonStore) List(ctx context.Context, filter *PersonQueryFilter) (model.PersonList, error) {
	var persons model.PersonList
	tx := p.getDB(ctx).Model(&persons).Order("name").Order("id")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

func (p *PersonStore) Get(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	var person model.Person
	if err := p.getDB(ctx).First(&person, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (p *PersonStore) Create(ctx context.Context, person model.Person) (*model.Person, error) {
	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}
	if person.Availability == "" {
		person.Availability = model.AvailabilityAvailable
	}
	if err := p.getDB(ctx).Create(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &person, nil
}

func (p *PersonStore) UpdateAvailability(ctx context.Context, id uuid.UUID, availability model.Availability) error {
	result := p.getDB(ctx).Model(&model.Person{}).Where("id = ?", id).Update("availability", availability)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *PersonStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db.WithContext(ctx)
}
