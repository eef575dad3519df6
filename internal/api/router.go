package api

import (
	"time"

	"github.com/iceweasel13/fishclicker-backend/config"
	"github.com/iceweasel13/fishclicker-backend/internal/api/v1/auth"
	"github.com/iceweasel13/fishclicker-backend/internal/api/v1/leaderboard"
	"github.com/iceweasel13/fishclicker-backend/internal/api/v1/session"
	"github.com/iceweasel13/fishclicker-backend/internal/database"
	"github.com/iceweasel13/fishclicker-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)
		leaderboard.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			session.RegisterRoutes(authorized)
		}
	}

	return router, nil
}
