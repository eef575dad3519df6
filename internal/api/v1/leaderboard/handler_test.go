package leaderboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iceweasel13/fishclicker-backend/internal/api/v1/leaderboard"
	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"
	"github.com/iceweasel13/fishclicker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLeaderboardTest(t *testing.T) *gin.Engine {
	t.Helper()
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

	r := gin.New()
	group := r.Group("/")
	leaderboard.RegisterRoutes(group)
	return r
}

func TestLeaderboard(t *testing.T) {
	r := setupLeaderboardTest(t)

	database.DB.Create(&models.User{WalletAddress: "0xa", Score: 10, Version: 1})
	database.DB.Create(&models.User{WalletAddress: "0xb", Score: 30, Version: 1})
	database.DB.Create(&models.User{WalletAddress: "0xc", Score: 20, Version: 1})

	req, _ := http.NewRequest(http.MethodGet, "/leaderboard?limit=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp leaderboard.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, "0xb", resp.Entries[0].WalletAddress)
	assert.Equal(t, "0xc", resp.Entries[1].WalletAddress)
}

func TestLeaderboard_Empty(t *testing.T) {
	r := setupLeaderboardTest(t)

	req, _ := http.NewRequest(http.MethodGet, "/leaderboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entries":[]}`, w.Body.String())
}
