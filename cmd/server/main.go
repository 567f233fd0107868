package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ecooverlay/server/modules/billing"
	"github.com/ecooverlay/server/modules/gateway"
	"github.com/ecooverlay/server/pkg/clientip"
	"github.com/ecooverlay/server/pkg/config"
	"github.com/ecooverlay/server/pkg/httpserver"
	"github.com/ecooverlay/server/pkg/identity"
	"github.com/ecooverlay/server/pkg/logger"
	"github.com/ecooverlay/server/pkg/pg"
	"github.com/ecooverlay/server/pkg/ratelimit"
	"github.com/ecooverlay/server/pkg/rbac"
	"github.com/ecooverlay/server/pkg/redis"
	"github.com/ecooverlay/server/pkg/routes"
	"github.com/ecooverlay/server/pkg/secevent"
	"github.com/ecooverlay/server/pkg/security"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"ecooverlay-server"`
	TiersFile   string `env:"GATEWAY_TIERS_FILE"`
	EventBuffer int    `env:"SECURITY_EVENT_BUFFER" envDefault:"256"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		appCfg     appConfig
		httpCfg    httpserver.Config
		redisCfg   redis.Config
		pgCfg      pg.Config
		ipCfg      clientip.Config
		corsCfg    security.Config
		idCfg      identity.Config
		billingCfg billing.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&ipCfg)
	config.MustLoad(&corsCfg)
	config.MustLoad(&idCfg)
	config.MustLoad(&billingCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Environment, appCfg.ServiceName),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, log, appCfg, httpCfg, redisCfg, pgCfg, ipCfg, corsCfg, idCfg, billingCfg); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	log *slog.Logger,
	appCfg appConfig,
	httpCfg httpserver.Config,
	redisCfg redis.Config,
	pgCfg pg.Config,
	ipCfg clientip.Config,
	corsCfg security.Config,
	idCfg identity.Config,
	billingCfg billing.Config,
) error {
	tiers := ratelimit.DefaultTiers()
	if appCfg.TiersFile != "" {
		loaded, err := ratelimit.LoadTiersFile(appCfg.TiersFile)
		if err != nil {
			return err
		}
		tiers = loaded
		log.Info("loaded rate-limit tiers", slog.String("file", appCfg.TiersFile))
	}

	fallback := ratelimit.NewMemoryStore(ratelimit.WithMaxWindow(tiers.MaxWindow()))
	defer fallback.Close()

	limiterOpts := []ratelimit.LimiterOption{
		ratelimit.WithFallbackHook(func(err error) {
			log.Warn("rate-limit backend unavailable, using in-process fallback", logger.Error(err))
		}),
	}

	var readiness []func(context.Context) error
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		limiterOpts = append(limiterOpts, ratelimit.WithPrimary(ratelimit.NewRedisStore(client)))
		readiness = append(readiness, redis.Healthcheck(client))
		log.Info("rate limiter using redis primary")
	} else {
		log.Warn("redis not configured, rate limiting is per-instance only")
	}

	limiter, err := ratelimit.NewLimiter(tiers, fallback, limiterOpts...)
	if err != nil {
		return err
	}

	var roleStore billing.Store
	if pgCfg.Enabled() {
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		roleStore = rbac.NewPGRoleStore(pool)
		readiness = append(readiness, pg.Healthcheck(pool))
	} else {
		roleStore = rbac.NewMemoryRoleStore()
		log.Warn("postgres not configured, using in-memory role store")
	}
	authz := rbac.NewAuthorizer(roleStore)

	resolver, err := identity.NewJWTResolver(idCfg)
	if err != nil {
		return err
	}

	events := secevent.NewLogger(log, secevent.WithAsync(appCfg.EventBuffer))
	defer events.Close()

	classifier := routes.NewClassifier(
		// Webhook delivery authenticates by signature, not session.
		routes.WithPublicPrefixes("/api/webhooks"),
	)

	gw := gateway.New(limiter, resolver,
		gateway.WithLogger(log),
		gateway.WithEvents(events),
		gateway.WithClassifier(classifier),
		gateway.WithExtractor(clientip.New(ipCfg)),
		gateway.WithCORS(security.NewCORS(corsCfg)),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(gw.Middleware)

	r.Get("/api/health", httpserver.HealthCheckHandler(log, readiness...))
	r.Get("/api/openapi", openapiHandler())
	r.Get("/api/user/flags", flagsHandler(authz))
	r.With(gw.RequirePermission(authz, rbac.PermCreateScan)).Post("/api/scan", scanHandler(log))
	r.With(gw.RequirePermission(authz, rbac.PermExportOwnData)).Post("/api/export", exportHandler())
	r.With(gw.RequireRole(authz, rbac.RoleAdmin)).Get("/api/admin/limits", limitsHandler(tiers))

	if billingCfg.Enabled() {
		svc := billing.NewService(roleStore, authz, log)
		webhook, err := billing.NewWebhook(billingCfg, svc)
		if err != nil {
			return err
		}
		r.Mount("/api/webhooks", webhook.Handle())
		log.Info("paddle webhook endpoint enabled")
	}

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
