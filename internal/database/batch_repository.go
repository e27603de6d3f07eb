package database

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"mushtrack/internal/lifecycle"
	"mushtrack/internal/models"
)

// BatchRepository persists batches and their harvest entries.
type BatchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a batch repository.
func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// List returns every batch, newest first, with harvests attached.
func (r *BatchRepository) List() ([]models.Batch, error) {
	var batches []models.Batch
	if err := r.db.Order("created_at desc").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	for i := range batches {
		if err := r.loadHarvests(&batches[i]); err != nil {
			return nil, err
		}
	}
	return batches, nil
}

// Get returns one batch by id. A missing record surfaces as
// lifecycle.NotFoundError so callers can distinguish stale views from
// real failures.
func (r *BatchRepository) Get(id string) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.Where("id = ?", id).First(&batch).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, &lifecycle.NotFoundError{Kind: "batch", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", id, err)
	}
	if err := r.loadHarvests(&batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Create inserts a new batch with its harvests.
func (r *BatchRepository) Create(b *models.Batch) error {
	tx := r.db.Begin()
	if err := tx.Create(b).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create batch: %w", err)
	}
	return tx.Commit().Error
}

// Save writes the batch fields and replaces its harvest rows so the
// stored list always matches the in-memory order.
func (r *BatchRepository) Save(b *models.Batch) error {
	tx := r.db.Begin()
	if err := tx.Save(b).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("save batch %s: %w", b.ID, err)
	}
	if err := tx.Where("batch_id = ?", b.ID).Delete(&models.Harvest{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("clear harvests for batch %s: %w", b.ID, err)
	}
	for i := range b.Harvests {
		h := b.Harvests[i]
		h.ID = 0
		h.BatchID = b.ID
		if err := tx.Create(&h).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("save harvest for batch %s: %w", b.ID, err)
		}
	}
	return tx.Commit().Error
}

// Delete removes a batch and its harvests. Child batches keep their
// parent reference; lineage is descriptive only.
func (r *BatchRepository) Delete(id string) error {
	tx := r.db.Begin()
	result := tx.Where("id = ?", id).Delete(&models.Batch{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("delete batch %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return &lifecycle.NotFoundError{Kind: "batch", ID: id}
	}
	if err := tx.Where("batch_id = ?", id).Delete(&models.Harvest{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete harvests for batch %s: %w", id, err)
	}
	return tx.Commit().Error
}

func (r *BatchRepository) loadHarvests(b *models.Batch) error {
	var harvests []models.Harvest
	if err := r.db.Where("batch_id = ?", b.ID).Order("id").Find(&harvests).Error; err != nil {
		return fmt.Errorf("load harvests for batch %s: %w", b.ID, err)
	}
	b.Harvests = harvests
	return nil
}
