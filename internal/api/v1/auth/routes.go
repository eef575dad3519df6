package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/auth")
	group.POST("/wallet", WalletLogin)
	group.GET("/verify", Verify)
	group.POST("/logout", Logout)
}
