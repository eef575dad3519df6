package services

import (
	"testing"

	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTopUsers(t *testing.T) {
	setupUserTestDB(t)

	scores := map[string]int64{"0xa": 50, "0xb": 200, "0xc": 125}
	for wallet, score := range scores {
		database.DB.Create(&models.User{WalletAddress: wallet, Score: score, Version: 1})
	}

	entries, err := TopUsers(2)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "0xb", entries[0].WalletAddress)
	assert.Equal(t, int64(200), entries[0].Score)
	assert.Equal(t, "0xc", entries[1].WalletAddress)
}

func TestTopUsers_CachesInRedis(t *testing.T) {
	setupUserTestDB(t)
	mr := setupUserTestRedis(t)
	defer mr.Close()

	database.DB.Create(&models.User{WalletAddress: "0xa", Score: 10, Version: 1})

	entries, err := TopUsers(10)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	// New rows are invisible until the cache TTL lapses
	database.DB.Create(&models.User{WalletAddress: "0xb", Score: 99, Version: 1})
	entries, err = TopUsers(10)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	mr.FastForward(leaderboardCacheTTL)
	entries, err = TopUsers(10)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "0xb", entries[0].WalletAddress)
}

func TestFindLedgerEntries_Pagination(t *testing.T) {
	setupClickTestDB(t)

	user := seedUser(t, models.User{
		WalletAddress:        "0xabc",
		DailyClicksAvailable: 100,
		Version:              1,
	})

	for i := 0; i < 5; i++ {
		_, err := ApplyClickReport(user.ID, freshReport(10))
		assert.NoError(t, err)
	}

	entries, total, err := FindLedgerEntries(user.ID, 1, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 3)

	entries, total, err = FindLedgerEntries(user.ID, 2, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 2)

	// Another user's ledger stays invisible
	entries, total, err = FindLedgerEntries("00000000-0000-0000-0000-000000000000", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Len(t, entries, 0)
}
