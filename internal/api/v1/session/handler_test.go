package session_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iceweasel13/fishclicker-backend/internal/api/v1/session"
	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/middleware"
	"github.com/iceweasel13/fishclicker-backend/internal/models"
	"github.com/iceweasel13/fishclicker-backend/internal/services"
	"github.com/iceweasel13/fishclicker-backend/internal/utils"
	"github.com/iceweasel13/fishclicker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.Migrator().DropTable(&models.User{}, &models.ClickLedgerEntry{})
	if err := db.AutoMigrate(&models.User{}, &models.ClickLedgerEntry{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	database.DB = db
	database.RedisClient = nil
	logger.Log = zap.NewNop()
}

// sessionRouter mounts the session routes behind a stub auth middleware that
// injects the given identity, mirroring what AuthMiddleware resolves.
func sessionRouter(identity *utils.TokenIdentity) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.ContextIdentityKey, identity)
		}
		c.Next()
	})
	group := r.Group("/")
	session.RegisterRoutes(group)
	return r
}

func postClicks(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/session/clicks", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func identityFor(user *models.User) *utils.TokenIdentity {
	return &utils.TokenIdentity{UserID: user.ID, WalletAddress: user.WalletAddress}
}

func TestReportClicks_EndToEnd(t *testing.T) {
	setupTestDB(t)

	// Pre-existing referrer 0xdef; new wallet 0xabc logs in with ref=0xdef
	referrer, err := services.LoginOrCreateUser("0xdef", "")
	assert.NoError(t, err)

	user, err := services.LoginOrCreateUser("0xabc", "0xdef")
	assert.NoError(t, err)
	assert.NotNil(t, user.ReferrerWalletAddress)
	assert.Equal(t, "0xdef", *user.ReferrerWalletAddress)
	assert.Equal(t, 100, user.DailyClicksAvailable)

	r := sessionRouter(identityFor(user))
	body := fmt.Sprintf(`{"clickCount":40,"timestamp":%d}`, time.Now().UnixMilli())
	w := postClicks(r, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp session.ClickReportResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 40, resp.ClickCount)
	assert.Equal(t, 2, resp.ReferralBonus) // floor(40 * 0.05)
	assert.Equal(t, int64(40), resp.User.Score)
	assert.Equal(t, 60, resp.User.DailyClicksAvailable)

	var creditedReferrer models.User
	database.DB.First(&creditedReferrer, "id = ?", referrer.ID)
	assert.Equal(t, int64(2), creditedReferrer.ReferralBonusScore)
}

func TestReportClicks_Failures(t *testing.T) {
	setupTestDB(t)

	user, err := services.LoginOrCreateUser("0xabc", "")
	assert.NoError(t, err)
	r := sessionRouter(identityFor(user))

	now := time.Now().UnixMilli()
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing clickCount", fmt.Sprintf(`{"timestamp":%d}`, now), http.StatusBadRequest},
		{"zero clickCount", fmt.Sprintf(`{"clickCount":0,"timestamp":%d}`, now), http.StatusBadRequest},
		{"negative clickCount", fmt.Sprintf(`{"clickCount":-3,"timestamp":%d}`, now), http.StatusBadRequest},
		{"fractional clickCount", fmt.Sprintf(`{"clickCount":1.5,"timestamp":%d}`, now), http.StatusBadRequest},
		{"missing timestamp", `{"clickCount":10}`, http.StatusBadRequest},
		{"stale timestamp", fmt.Sprintf(`{"clickCount":10,"timestamp":%d}`, now-10000), http.StatusBadRequest},
		{"burst limit", fmt.Sprintf(`{"clickCount":351,"timestamp":%d}`, now), http.StatusBadRequest},
		{"insufficient allowance", fmt.Sprintf(`{"clickCount":150,"timestamp":%d}`, now), http.StatusBadRequest},
		{"malformed JSON", `{"clickCount":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postClicks(r, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			var errBody utils.ErrorBody
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
			assert.NotEmpty(t, errBody.Error)
		})
	}

	// Nothing was applied by any of the rejected reports
	var persisted models.User
	database.DB.First(&persisted, "id = ?", user.ID)
	assert.Equal(t, int64(0), persisted.Score)
	assert.Equal(t, 100, persisted.DailyClicksAvailable)
}

func TestReportClicks_UnknownIdentity(t *testing.T) {
	setupTestDB(t)

	r := sessionRouter(&utils.TokenIdentity{UserID: "00000000-0000-0000-0000-000000000000"})
	body := fmt.Sprintf(`{"clickCount":10,"timestamp":%d}`, time.Now().UnixMilli())
	w := postClicks(r, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMe(t *testing.T) {
	setupTestDB(t)

	user, err := services.LoginOrCreateUser("0xabc", "")
	assert.NoError(t, err)

	r := sessionRouter(identityFor(user))
	req, _ := http.NewRequest(http.MethodGet, "/session/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var me models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "0xabc", me.WalletAddress)
	assert.Equal(t, 100, me.DailyClicks)
}

func TestMe_UserRowAbsent(t *testing.T) {
	setupTestDB(t)

	r := sessionRouter(&utils.TokenIdentity{UserID: "00000000-0000-0000-0000-000000000000"})
	req, _ := http.NewRequest(http.MethodGet, "/session/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchase(t *testing.T) {
	setupTestDB(t)

	user, err := services.LoginOrCreateUser("0xabc", "")
	assert.NoError(t, err)

	r := sessionRouter(identityFor(user))
	req, _ := http.NewRequest(http.MethodPost, "/session/purchase", bytes.NewBufferString(`{"purchased_clicks":1000}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp session.PurchaseResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1000, resp.NewPurchasedClicks)
}

func TestReferralsEndpoint(t *testing.T) {
	setupTestDB(t)

	user, err := services.LoginOrCreateUser("0xref", "")
	assert.NoError(t, err)
	_, err = services.LoginOrCreateUser("0xother", "0xref")
	assert.NoError(t, err)

	r := sessionRouter(identityFor(user))
	req, _ := http.NewRequest(http.MethodGet, "/session/referrals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp session.ReferralCountResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Count)
}

func TestLedgerEndpoint(t *testing.T) {
	setupTestDB(t)

	user, err := services.LoginOrCreateUser("0xabc", "")
	assert.NoError(t, err)

	r := sessionRouter(identityFor(user))
	body := fmt.Sprintf(`{"clickCount":25,"timestamp":%d}`, time.Now().UnixMilli())
	assert.Equal(t, http.StatusOK, postClicks(r, body).Code)

	req, _ := http.NewRequest(http.MethodGet, "/session/ledger?page=1&limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp session.LedgerResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	assert.Len(t, resp.Entries, 1)
	assert.Equal(t, 25, resp.Entries[0].ClickCount)
}
