package services

import (
	"fmt"

	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"
)

// FindLedgerEntries retrieves a user's click ledger, newest first.
func FindLedgerEntries(userID string, page, limit int) ([]models.ClickLedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var entries []models.ClickLedgerEntry
	var total int64

	query := database.DB.Model(&models.ClickLedgerEntry{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return entries, total, nil
}
