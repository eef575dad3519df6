package leaderboard

import (
	"net/http"
	"strconv"

	"github.com/iceweasel13/fishclicker-backend/internal/services"
	"github.com/iceweasel13/fishclicker-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Entries []services.LeaderboardEntry `json:"entries"`
}

// Top godoc
// @Summary Public leaderboard
// @Description Top users by score
// @Tags leaderboard
// @Produce  json
// @Param   limit  query  int  false  "number of entries (default 10, max 100)"
// @Success 200 {object} Response
// @Failure 500 {object} utils.ErrorBody
// @Router /leaderboard [get]
func Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := services.TopUsers(limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, services.ErrStorage.Error())
		return
	}

	if entries == nil {
		entries = []services.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, Response{Entries: entries})
}
