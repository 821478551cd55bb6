package database

import (
	"context"
	"errors"
	"fmt"

	"grabbi-storefront/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Journal stores redeem and gift attempts.
type Journal struct {
	DB *gorm.DB
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{DB: db}
}

// Start inserts a new attempt row.
func (j *Journal) Start(ctx context.Context, attempt *models.GiftAttempt) error {
	if attempt.Status == "" {
		attempt.Status = models.AttemptStarted
	}
	if err := j.DB.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// Update writes the attempt's progress fields.
func (j *Journal) Update(ctx context.Context, attempt *models.GiftAttempt) error {
	err := j.DB.WithContext(ctx).Model(&models.GiftAttempt{}).
		Where("id = ?", attempt.ID).
		Updates(map[string]interface{}{
			"recipient_id":  attempt.RecipientID,
			"balance_after": attempt.BalanceAfter,
			"status":        attempt.Status,
			"error_kind":    attempt.ErrorKind,
			"error_message": attempt.ErrorMessage,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update attempt %s: %w", attempt.ID, err)
	}
	return nil
}

func (j *Journal) Get(ctx context.Context, id uuid.UUID) (*models.GiftAttempt, error) {
	var attempt models.GiftAttempt
	if err := j.DB.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// List returns attempts newest first, optionally filtered by status.
func (j *Journal) List(ctx context.Context, status string, page, limit int) ([]models.GiftAttempt, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filtered := func() *gorm.DB {
		q := j.DB.WithContext(ctx).Model(&models.GiftAttempt{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []models.GiftAttempt
	err := filtered().Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// IsNotFound reports whether err means the attempt does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
