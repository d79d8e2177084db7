package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/activoentrena/territory-service/internal/config"
	"github.com/activoentrena/territory-service/internal/handler"
	"github.com/activoentrena/territory-service/internal/repository"
	"github.com/activoentrena/territory-service/internal/service"
	"github.com/activoentrena/territory-service/internal/strava"
	"github.com/activoentrena/territory-service/internal/utils"
	"github.com/activoentrena/territory-service/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra     Infrastructure
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	scheduler *ClosureScheduler
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	blacklistService := service.NewTokenBlacklistService(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos.User,
		repos.Token,
		jwtManager,
		blacklistService,
		cfg.Security.BCryptCost,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	stravaClient := strava.NewClient(cfg.Strava.ClientID, cfg.Strava.ClientSecret, cfg.Strava.APIBaseURL)
	connectService := service.NewStravaConnectService(repos.User, stravaClient, cfg.Strava.RedirectURI)

	runService := service.NewRunService(infra.Postgres(), repos.User, repos.Season, repos.Run, repos.Territory)
	syncService := service.NewSyncService(repos.User, repos.Run, connectService, stravaClient, runService, infra.Logger())
	territoryService := service.NewTerritoryService(repos.Season, repos.Territory)
	leaderboardService := service.NewLeaderboardService(repos.Season, repos.Run)
	closureService := service.NewClosureService(infra.Postgres(), repos.Season, repos.Podium, infra.Logger())

	authHandler := handler.NewAuthHandler(authService)
	runHandler := handler.NewRunHandler(runService)
	territoryHandler := handler.NewTerritoryHandler(territoryService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	seasonHandler := handler.NewSeasonHandler(closureService)
	stravaHandler := handler.NewStravaHandler(connectService, syncService, cfg.Strava.FrontendURL)

	router := gin.Default()
	router.Use(otelgin.Middleware("territory-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, routeHandlers{
		auth:        authHandler,
		runs:        runHandler,
		territories: territoryHandler,
		leaderboard: leaderboardHandler,
		seasons:     seasonHandler,
		strava:      stravaHandler,
	}, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	scheduler := NewClosureScheduler(closureService, cfg.Closure.CheckInterval.Duration, infra.Logger())

	return &App{
		infra:     infra,
		config:    cfg,
		router:    router,
		server:    srv,
		scheduler: scheduler,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

type routeHandlers struct {
	auth        *handler.AuthHandler
	runs        *handler.RunHandler
	territories *handler.TerritoryHandler
	leaderboard *handler.LeaderboardHandler
	seasons     *handler.SeasonHandler
	strava      *handler.StravaHandler
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h routeHandlers,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	authRequired := handler.AuthMiddleware(authService)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				h.auth.Register,
			)
			auth.POST("/login",
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
				h.auth.Login,
			)
			auth.POST("/refresh", h.auth.Refresh)
			auth.POST("/logout", authRequired, h.auth.Logout)
			auth.GET("/me", authRequired, h.auth.GetMe)
		}

		runs := api.Group("/runs", authRequired)
		{
			runs.POST("", h.runs.Submit)
			runs.GET("/history", h.runs.History)
			runs.GET("/stats", h.runs.Stats)
		}

		api.GET("/territories", authRequired, h.territories.List)
		api.GET("/leaderboard", authRequired, h.leaderboard.Get)

		seasons := api.Group("/seasons")
		{
			seasons.POST("/process-closures", authRequired, h.seasons.ProcessClosures)
			seasons.GET("/hall-of-fame", authRequired, h.seasons.HallOfFame)
		}

		stravaGroup := api.Group("/strava")
		{
			stravaGroup.GET("/login", authRequired, h.strava.Login)
			// Strava redirects the browser here; no bearer token on this hop.
			stravaGroup.GET("/callback", h.strava.Callback)
			stravaGroup.POST("/sync",
				authRequired,
				handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.UserBasedKey),
				h.strava.Sync,
			)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go a.scheduler.Run(schedulerCtx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	stopScheduler()

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
