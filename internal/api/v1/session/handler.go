package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/iceweasel13/fishclicker-backend/internal/middleware"
	"github.com/iceweasel13/fishclicker-backend/internal/services"
	"github.com/iceweasel13/fishclicker-backend/internal/utils"
	"github.com/iceweasel13/fishclicker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportClicks godoc
// @Summary Submit a batched click report
// @Description Validate the report, debit the allowance ledger, and credit score and referral bonus
// @Tags session
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input  body  ClickReportInput  true  "Click Report"
// @Success 200 {object} ClickReportResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /session/clicks [post]
func ReportClicks(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input ClickReportInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	result, err := services.ApplyClickReport(identity.UserID, services.ClickReport{
		ClickCount: input.ClickCount,
		Timestamp:  input.Timestamp,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ClickReportResponse{
		Success:       true,
		User:          &result.User,
		ClickCount:    result.ClickCount,
		ReferralBonus: result.ReferralBonus,
	})
}

// Me godoc
// @Summary Get the current user
// @Description Return the canonical user row for the session identity
// @Tags session
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /session/me [get]
func Me(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := services.FindUserByID(identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Purchase godoc
// @Summary Credit purchased clicks
// @Description Add bought clicks to the authenticated user's purchased total
// @Tags session
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input  body  PurchaseInput  true  "Purchase Input"
// @Success 200 {object} PurchaseResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /session/purchase [post]
func Purchase(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input PurchaseInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	newTotal, err := services.CreditPurchasedClicks(identity.UserID, input.PurchasedClicks)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PurchaseResponse{Success: true, NewPurchasedClicks: newTotal})
}

// Referrals godoc
// @Summary Count own referrals
// @Description Return how many users registered with this wallet as referrer
// @Tags session
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} ReferralCountResponse
// @Failure 401 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /session/referrals [get]
func Referrals(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := services.CountReferrals(identity.WalletAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReferralCountResponse{Count: count})
}

// Ledger godoc
// @Summary List own click ledger
// @Description Paginated audit trail of the user's accepted click reports, newest first
// @Tags session
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} LedgerResponse
// @Failure 401 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /session/ledger [get]
func Ledger(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, total, err := services.FindLedgerEntries(identity.UserID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LedgerResponse{Entries: entries, Total: total, Page: page, Limit: limit})
}

// respondServiceError translates service-layer sentinels onto the wire
// contract; anything unrecognized is reported as a generic storage fault so
// internals never leak to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidClickReport),
		errors.Is(err, services.ErrStaleTimestamp),
		errors.Is(err, services.ErrBurstLimitExceeded),
		errors.Is(err, services.ErrInsufficientAllowance),
		errors.Is(err, services.ErrInvalidPurchase):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.JSONError(c, http.StatusNotFound, services.ErrUserNotFound.Error())
	default:
		logger.Log.Error("session request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, services.ErrStorage.Error())
	}
}
