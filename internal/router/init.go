package router

import (
	"github.com/bytebeat/bytebeat-api/internal/application"
	"github.com/bytebeat/bytebeat-api/internal/container"
	pginfra "github.com/bytebeat/bytebeat-api/internal/infrastructure/postgres"
	handlers "github.com/bytebeat/bytebeat-api/internal/interface/http"
	"github.com/bytebeat/bytebeat-api/internal/router/modules"
)

// InitModules builds all feature modules from the container singletons and
// registers them with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	blogRepo := pginfra.NewBlogRepository(container.GetPGPool())

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
	)
	blogSvc := application.NewBlogService(
		blogRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
		container.GetES(),
		cfg.ESBlogsIndex,
	)

	authHandler := handlers.NewAuthHandler(userSvc, logger)
	blogHandler := handlers.NewBlogHandler(blogSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewBlogModule(blogHandler, userRepo))
	r.Add(modules.NewUserModule(userHandler, userRepo))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
