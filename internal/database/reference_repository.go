package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"mushtrack/internal/lifecycle"
	"mushtrack/internal/models"
)

// ReferenceRepository persists the flat reference lists: varieties,
// substrates, suppliers and unit types. Deleting a value still used by a
// non-retired batch is rejected.
type ReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a reference-list repository.
func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListVarieties() ([]models.Variety, error) {
	var out []models.Variety
	if err := r.db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}
	return out, nil
}

func (r *ReferenceRepository) CreateVariety(name, abbr string) (*models.Variety, error) {
	v := &models.Variety{ID: uuid.NewString(), Name: name, Abbr: abbr}
	if err := r.db.Create(v).Error; err != nil {
		return nil, fmt.Errorf("create variety %q: %w", name, err)
	}
	return v, nil
}

func (r *ReferenceRepository) DeleteVariety(name string) error {
	if err := r.checkUnused("variety", name); err != nil {
		return err
	}
	return r.deleteByName(&models.Variety{}, "variety", name)
}

func (r *ReferenceRepository) ListSubstrates() ([]models.Substrate, error) {
	var out []models.Substrate
	if err := r.db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list substrates: %w", err)
	}
	return out, nil
}

func (r *ReferenceRepository) CreateSubstrate(name string) (*models.Substrate, error) {
	s := &models.Substrate{ID: uuid.NewString(), Name: name}
	if err := r.db.Create(s).Error; err != nil {
		return nil, fmt.Errorf("create substrate %q: %w", name, err)
	}
	return s, nil
}

func (r *ReferenceRepository) DeleteSubstrate(name string) error {
	if err := r.checkUnused("substrate_recipe", name); err != nil {
		return err
	}
	return r.deleteByName(&models.Substrate{}, "substrate", name)
}

func (r *ReferenceRepository) ListSuppliers() ([]models.Supplier, error) {
	var out []models.Supplier
	if err := r.db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return out, nil
}

func (r *ReferenceRepository) CreateSupplier(name string) (*models.Supplier, error) {
	s := &models.Supplier{ID: uuid.NewString(), Name: name}
	if err := r.db.Create(s).Error; err != nil {
		return nil, fmt.Errorf("create supplier %q: %w", name, err)
	}
	return s, nil
}

func (r *ReferenceRepository) DeleteSupplier(name string) error {
	if err := r.checkUnused("spawn_supplier", name); err != nil {
		return err
	}
	return r.deleteByName(&models.Supplier{}, "supplier", name)
}

func (r *ReferenceRepository) ListUnitTypes() ([]models.UnitType, error) {
	var out []models.UnitType
	if err := r.db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list unit types: %w", err)
	}
	return out, nil
}

func (r *ReferenceRepository) CreateUnitType(name string) (*models.UnitType, error) {
	u := &models.UnitType{ID: uuid.NewString(), Name: name}
	if err := r.db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("create unit type %q: %w", name, err)
	}
	return u, nil
}

func (r *ReferenceRepository) DeleteUnitType(name string) error {
	if err := r.checkUnused("unit_type", name); err != nil {
		return err
	}
	return r.deleteByName(&models.UnitType{}, "unit type", name)
}

// checkUnused rejects deletion while any non-retired batch still
// references the value through the given batch column.
func (r *ReferenceRepository) checkUnused(column, name string) error {
	var count int
	err := r.db.Model(&models.Batch{}).
		Where(column+" = ? AND stage <> ?", name, models.StageRetired).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check %s usage: %w", column, err)
	}
	if count > 0 {
		return &lifecycle.ValidationError{
			Msg: fmt.Sprintf("%q is still used by %d active batch(es)", name, count),
		}
	}
	return nil
}

func (r *ReferenceRepository) deleteByName(model interface{}, kind, name string) error {
	result := r.db.Where("name = ?", name).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %s %q: %w", kind, name, result.Error)
	}
	if result.RowsAffected == 0 {
		return &lifecycle.NotFoundError{Kind: kind, ID: name}
	}
	return nil
}
