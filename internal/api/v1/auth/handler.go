package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/iceweasel13/fishclicker-backend/internal/services"
	"github.com/iceweasel13/fishclicker-backend/internal/utils"
	"github.com/iceweasel13/fishclicker-backend/internal/wallet"
	"github.com/iceweasel13/fishclicker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Verifier checks wallet personal-message signatures. Package-level so tests
// can swap in a stub.
var Verifier wallet.Verifier = wallet.NewEd25519Verifier()

// WalletLogin godoc
// @Summary Log in with a wallet signature
// @Description Verify a signed personal message, upsert the user, and issue a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   input  body  WalletLoginInput  true  "Wallet Login Input"
// @Success 200 {object} WalletLoginResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /auth/wallet [post]
func WalletLogin(c *gin.Context) {
	var input WalletLoginInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	referrer := input.ReferrerWalletAddress
	if referrer == "" {
		referrer = c.Query("ref")
	}

	ok, err := Verifier.Verify(input.WalletAddress, input.Message, input.Signature)
	if err != nil || !ok {
		if err != nil {
			logger.Log.Warn("signature verification failed",
				zap.String("wallet_address", input.WalletAddress),
				zap.Error(err))
		}
		utils.JSONError(c, http.StatusUnauthorized, "invalid signature")
		return
	}

	user, err := services.LoginOrCreateUser(input.WalletAddress, referrer)
	if err != nil {
		logger.Log.Error("login upsert failed",
			zap.String("wallet_address", input.WalletAddress),
			zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load or create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		if errors.Is(err, utils.ErrSecretNotSet) {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not generate token")
		return
	}

	c.JSON(http.StatusOK, WalletLoginResponse{Token: token, User: user})
}

// Verify godoc
// @Summary Verify a session token
// @Description Decode the bearer token and return the identity it carries
// @Tags auth
// @Produce  json
// @Success 200 {object} VerifyResponse
// @Failure 401 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /auth/verify [get]
func Verify(c *gin.Context) {
	tokenString, err := utils.ExtractToken(c)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
		return
	}

	// A logged-out token must fail here the same way it fails on the
	// session routes.
	isDenylisted, err := services.IsDenylisted(tokenString)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to check token status")
		return
	}
	if isDenylisted {
		utils.JSONError(c, http.StatusUnauthorized, "token has been revoked")
		return
	}

	identity, err := utils.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, utils.ErrSecretNotSet) {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{User: VerifiedIdentity{
		ID:            identity.UserID,
		WalletAddress: identity.WalletAddress,
	}})
}

// Logout godoc
// @Summary Log out
// @Description Revoke the presented session token for its remaining lifetime
// @Tags auth
// @Produce  json
// @Success 200 {object} LogoutResponse
// @Failure 401 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	tokenString, err := utils.ExtractToken(c)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
		return
	}

	remaining := 24 * time.Hour // max token life if claims are unreadable
	if identity, err := utils.ValidateToken(tokenString); err == nil && !identity.ExpiresAt.IsZero() {
		remaining = time.Until(identity.ExpiresAt)
	}

	if err := services.AddToDenylist(tokenString, remaining); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	c.JSON(http.StatusOK, LogoutResponse{Message: "logged out successfully"})
}
