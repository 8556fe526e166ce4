package repository

import (
	"context"
	"errors"

	"github.com/dsrealty/estate-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository hands out monotonically increasing counters for document
// numbers. NextValue must be called inside the same transaction that inserts
// the numbered row so a rolled-back insert does not burn a number silently.
type SequenceRepository interface {
	NextValue(tx *gorm.DB, name string) (int64, error)
	CurrentValue(ctx context.Context, name string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// NextValue locks the counter row, increments it and returns the new value.
// The row lock serializes concurrent callers so two transactions can never
// read the same value.
func (r *sequenceRepository) NextValue(tx *gorm.DB, name string) (int64, error) {
	var seq models.Sequence
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.Sequence{Name: name, Value: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	}
	if err != nil {
		return 0, err
	}

	seq.Value++
	if err := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("value", seq.Value).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

func (r *sequenceRepository) CurrentValue(ctx context.Context, name string) (int64, error) {
	var seq models.Sequence
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
