package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the canonical click-ledger row. All spendable-click accounting
// lives here; the client-side pending counter is never authoritative.
type User struct {
	ID                    string    `gorm:"type:uuid;primarykey" json:"id"`
	WalletAddress         string    `gorm:"uniqueIndex;not null" json:"wallet_address"`
	Score                 int64     `gorm:"not null;default:0" json:"score"`
	DailyClicks           int       `gorm:"not null;default:100" json:"daily_clicks"`
	DailyClicksAvailable  int       `gorm:"not null;default:100" json:"daily_clicks_available"`
	PurchasedClicks       int       `gorm:"not null;default:0" json:"purchased_clicks"`
	PurchasedClicksUsed   int       `gorm:"not null;default:0" json:"purchased_clicks_used"`
	ReferrerWalletAddress *string   `gorm:"index" json:"referrer_wallet_address"`
	ReferralBonusScore    int64     `gorm:"not null;default:0" json:"referral_bonus_score"`
	Version               int       `gorm:"not null;default:1" json:"-"`
	LastActiveAt          time.Time `json:"last_active_at"`
	CreatedAt             time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AvailableClicks is the total currently spendable allowance:
// remaining daily clicks plus unused purchased clicks.
func (u *User) AvailableClicks() int {
	return u.DailyClicksAvailable + (u.PurchasedClicks - u.PurchasedClicksUsed)
}
