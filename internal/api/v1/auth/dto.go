package auth

import "github.com/iceweasel13/fishclicker-backend/internal/models"

// WalletLoginInput is the body of POST /auth/wallet. The referrer may also
// arrive as the ?ref= query parameter when the login came from a share link.
type WalletLoginInput struct {
	WalletAddress         string `json:"wallet_address" binding:"required"`
	Message               string `json:"message" binding:"required"`
	Signature             string `json:"signature" binding:"required"`
	ReferrerWalletAddress string `json:"referrer_wallet_address"`
}

// WalletLoginResponse carries the session token plus the canonical user row
// so the client can seed its cache without a second round trip.
type WalletLoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// VerifyResponse is the decoded identity for GET /auth/verify.
type VerifyResponse struct {
	User VerifiedIdentity `json:"user"`
}

type VerifiedIdentity struct {
	ID            string `json:"id"`
	WalletAddress string `json:"wallet_address"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}
