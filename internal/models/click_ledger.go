package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ClickLedgerEntry is an append-only audit record for every accepted click
// report. The users row stays the source of truth; entries exist so that
// disputed scores can be reconstructed after the fact.
type ClickLedgerEntry struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `gorm:"precision:3" json:"created_at"` // Millisecond precision
	UserID        string    `gorm:"type:uuid;index;not null" json:"user_id"`
	ClickCount    int       `gorm:"not null" json:"click_count"`
	DailyUsed     int       `gorm:"not null" json:"daily_used"`
	PurchasedUsed int       `gorm:"not null" json:"purchased_used"`
	ScoreBefore   int64     `gorm:"not null" json:"score_before"`
	ScoreAfter    int64     `gorm:"not null" json:"score_after"`
	ReferralBonus int       `gorm:"not null;default:0" json:"referral_bonus"`
	Hash          string    `gorm:"type:varchar(64);default:''" json:"hash"` // HMAC SHA256
}

// GenerateHash generates a tamper-proof hash for the ledger entry
func (e *ClickLedgerEntry) GenerateHash(secret string) string {
	data := fmt.Sprintf("%s|%d|%d|%d|%d|%d|%d|%d",
		e.UserID, e.CreatedAt.UnixNano(), e.ClickCount, e.DailyUsed,
		e.PurchasedUsed, e.ScoreBefore, e.ScoreAfter, e.ReferralBonus)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
