package session

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/session")
	group.POST("/clicks", ReportClicks)
	group.GET("/me", Me)
	group.POST("/purchase", Purchase)
	group.GET("/referrals", Referrals)
	group.GET("/ledger", Ledger)
}
