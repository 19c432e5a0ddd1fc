package routes

import (
	"skyjobs/internal/handlers"
	"skyjobs/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - необязательные части маршрутизации
type Options struct {
	// StaticDir и StaticURL задаются только для локального хранилища
	StaticDir string
	StaticURL string
	// Swagger включает /swagger/*any
	Swagger bool
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
	opts Options,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.JobHandler.RegisterRoutes(api, authMW)
		appHandlers.UploadHandler.RegisterRoutes(api, authMW)
	}

	if opts.StaticDir != "" && opts.StaticURL != "" {
		ginRouter.Static(opts.StaticURL, opts.StaticDir)
		logger.Info("Serving uploaded files", "url", opts.StaticURL, "dir", opts.StaticDir)
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
