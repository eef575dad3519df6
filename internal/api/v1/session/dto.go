package session

import "github.com/iceweasel13/fishclicker-backend/internal/models"

// ClickReportInput is the body of POST /session/clicks: a batch of clicks
// performed since the last sync plus the client-observed flush time.
type ClickReportInput struct {
	ClickCount int   `json:"clickCount" binding:"required,gt=0"`
	Timestamp  int64 `json:"timestamp" binding:"required"`
}

// ClickReportResponse echoes the applied report with the canonical user row
// the client must reconcile against.
type ClickReportResponse struct {
	Success       bool         `json:"success"`
	User          *models.User `json:"user"`
	ClickCount    int          `json:"clickCount"`
	ReferralBonus int          `json:"referralBonus"`
}

// PurchaseInput is the body of POST /session/purchase.
type PurchaseInput struct {
	PurchasedClicks int `json:"purchased_clicks" binding:"required,gt=0"`
}

type PurchaseResponse struct {
	Success            bool `json:"success"`
	NewPurchasedClicks int  `json:"newPurchasedClicks"`
}

type ReferralCountResponse struct {
	Count int64 `json:"count"`
}

type LedgerResponse struct {
	Entries []models.ClickLedgerEntry `json:"entries"`
	Total   int64                     `json:"total"`
	Page    int                       `json:"page"`
	Limit   int                       `json:"limit"`
}
