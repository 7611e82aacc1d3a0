package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Kamar-Folarin/repo-mirror/docs"
)

// @title Repo Mirror API
// @version 1.0
// @description Mirrors one GitHub repository onto another on demand
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// SetupRouter configures the API routes. Wrap the result in WithCORS before serving.
func SetupRouter(h *Handler, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/git-operations", h.CreateGitOperation)

		repositories := v1.Group("/repositories")
		{
			repositories.GET("", h.ListRepositories)
			repositories.GET("/:id", h.GetRepository)
		}
	}

	return r
}
