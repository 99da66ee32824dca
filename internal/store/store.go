package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) (context.Context, error)
	Rollback(ctx context.Context) (context.Context, error)
	Person() Person
	Property() Property
	Inspection() Inspection
	Assignment() Assignment
	Lock() Lock
	InitialMigration(ctx context.Context) error
	Seed() error
	Close() error
}

type DataStore struct {
	db         *gorm.DB
	log        logrus.FieldLogger
	person     Person
	property   Property
	inspection Inspection
	assignment Assignment
	lock       Lock
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:         db,
		log:        logrus.New().WithField("component", "store"),
		person:     NewPersonStore(db),
		property:   NewPropertyStore(db),
		inspection: NewInspectionStore(db),
		assignment: NewAssignmentStore(db),
		lock:       NewLockStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db, s.log)
}

func (s *DataStore) Commit(ctx context.Context) (context.Context, error) {
	return Commit(ctx)
}

func (s *DataStore) Rollback(ctx context.Context) (context.Context, error) {
	return Rollback(ctx)
}

func (s *DataStore) Person() Person {
	return s.person
}

func (s *DataStore) Property() Property {
	return s.property
}

func (s *DataStore) Inspection() Inspection {
	return s.inspection
}

func (s *DataStore) Assignment() Assignment {
	return s.assignment
}

func (s *DataStore) Lock() Lock {
	return s.lock
}

// InitialMigration creates the schema from the models. Production databases
// are migrated with goose; this is used for sqlite and tests.
func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&model.Person{},
		&model.Property{},
		&model.Inspection{},
		&model.Assignment{},
	)
}

// Seed inserts a small demo roster. Running it twice is harmless.
func (s *DataStore) Seed() error {
	tx, err := newTransaction(s.db, s.log)
	if err != nil {
		return err
	}

	persons := []model.Person{
		{ID: uuid.MustParse("6b1a6a4e-2d1f-4c55-9d7e-1c0e2f5a9a01"), Role: model.RoleSupervisor, Name: "Alice Moreau", Email: "alice@example.com", Specialization: "residential", HourlyRate: decimal.RequireFromString("65.00"), ExperienceYears: 12},
		{ID: uuid.MustParse("6b1a6a4e-2d1f-4c55-9d7e-1c0e2f5a9a02"), Role: model.RoleSupervisor, Name: "Bruno Keller", Email: "bruno@example.com", Specialization: "commercial", HourlyRate: decimal.RequireFromString("70.00"), ExperienceYears: 9},
		{ID: uuid.MustParse("6b1a6a4e-2d1f-4c55-9d7e-1c0e2f5a9a03"), Role: model.RoleInspector, Name: "Chiara Rossi", Email: "chiara@example.com", Specialization: "safety", HourlyRate: decimal.RequireFromString("45.50"), ExperienceYears: 5},
		{ID: uuid.MustParse("6b1a6a4e-2d1f-4c55-9d7e-1c0e2f5a9a04"), Role: model.RoleInspector, Name: "Dmitri Volkov", Email: "dmitri@example.com", Specialization: "compliance", HourlyRate: decimal.RequireFromString("42.00"), ExperienceYears: 3},
		{ID: uuid.MustParse("6b1a6a4e-2d1f-4c55-9d7e-1c0e2f5a9a05"), Role: model.RoleInspector, Name: "Eun-ji Park", Email: "eunji@example.com", Specialization: "maintenance", Availability: model.AvailabilityUnavailable, HourlyRate: decimal.RequireFromString("40.00"), ExperienceYears: 2},
	}
	for i := range persons {
		if persons[i].Availability == "" {
			persons[i].Availability = model.AvailabilityAvailable
		}
	}

	if err := tx.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&persons).Error; err != nil {
		_ = tx.Rollback()
		return err
	}

	properties := []model.Property{
		{ID: 1, Name: "Harbour View Apartments", Address: "12 Quay Street", PropertyType: "residential"},
		{ID: 2, Name: "Northgate Retail Park", Address: "400 Northgate Road", PropertyType: "commercial"},
	}
	if err := tx.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&properties).Error; err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
