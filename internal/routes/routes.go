package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/virtuebox/backoffice/internal/auth"
	"github.com/virtuebox/backoffice/internal/config"
	"github.com/virtuebox/backoffice/internal/infra"
	"github.com/virtuebox/backoffice/internal/middleware"
	"github.com/virtuebox/backoffice/internal/partner"
	"github.com/virtuebox/backoffice/internal/token"
	"github.com/virtuebox/backoffice/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *infra.LazyPool
	Cache  *redis.Client
	Logger *slog.Logger

	// Repo overrides the store; tests seed records through it. When nil, the
	// Postgres repository is used, or the in-memory one if DB is also nil.
	Repo user.Repository
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	codec, err := token.NewCodec([]byte(d.Cfg.AuthSecret), d.Cfg.TokenTTL)
	if err != nil {
		return err
	}

	repo := d.Repo
	if repo == nil {
		if d.DB != nil {
			repo = user.NewPostgresRepository(d.DB)
		} else {
			repo = user.NewMemoryRepository()
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)
	RegisterPages(app, []byte(d.Cfg.AuthSecret))

	partnerSvc := partner.NewService(repo, d.Cfg.BcryptCost)
	authSvc := auth.NewService(repo, codec)

	authHandler := auth.NewHandler(authSvc, d.Cfg)
	partnerHandler := partner.NewHandler(partnerSvc)

	api := app.Group("/api")

	RegisterAuthRoutes(api, authHandler, codec, middleware.LoginRateLimit(d.Cache, 5))
	RegisterPartnerRoutes(api, partnerHandler, codec, d)

	return nil
}
