package database

import (
	"github.com/jinzhu/gorm"

	"mushtrack/internal/models"
)

// Store bundles the repositories behind the interface the API consumes.
type Store struct {
	Batches    *BatchRepository
	References *ReferenceRepository
}

// NewStore creates the repository collection for a database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Batches:    NewBatchRepository(db),
		References: NewReferenceRepository(db),
	}
}

func (s *Store) ListBatches() ([]models.Batch, error)      { return s.Batches.List() }
func (s *Store) GetBatch(id string) (*models.Batch, error) { return s.Batches.Get(id) }
func (s *Store) CreateBatch(b *models.Batch) error         { return s.Batches.Create(b) }
func (s *Store) SaveBatch(b *models.Batch) error           { return s.Batches.Save(b) }
func (s *Store) DeleteBatch(id string) error               { return s.Batches.Delete(id) }

func (s *Store) ListVarieties() ([]models.Variety, error) { return s.References.ListVarieties() }
func (s *Store) CreateVariety(name, abbr string) (*models.Variety, error) {
	return s.References.CreateVariety(name, abbr)
}
func (s *Store) DeleteVariety(name string) error { return s.References.DeleteVariety(name) }

func (s *Store) ListSubstrates() ([]models.Substrate, error) { return s.References.ListSubstrates() }
func (s *Store) CreateSubstrate(name string) (*models.Substrate, error) {
	return s.References.CreateSubstrate(name)
}
func (s *Store) DeleteSubstrate(name string) error { return s.References.DeleteSubstrate(name) }

func (s *Store) ListSuppliers() ([]models.Supplier, error) { return s.References.ListSuppliers() }
func (s *Store) CreateSupplier(name string) (*models.Supplier, error) {
	return s.References.CreateSupplier(name)
}
func (s *Store) DeleteSupplier(name string) error { return s.References.DeleteSupplier(name) }

func (s *Store) ListUnitTypes() ([]models.UnitType, error) { return s.References.ListUnitTypes() }
func (s *Store) CreateUnitType(name string) (*models.UnitType, error) {
	return s.References.CreateUnitType(name)
}
func (s *Store) DeleteUnitType(name string) error { return s.References.DeleteUnitType(name) }
