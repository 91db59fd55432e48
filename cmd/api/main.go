package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/carslab/funnel-api/config"
	"github.com/carslab/funnel-api/internal/cache"
	"github.com/carslab/funnel-api/internal/handlers"
	"github.com/carslab/funnel-api/internal/middleware"
	"github.com/carslab/funnel-api/internal/repository"
	"github.com/carslab/funnel-api/internal/services"
	"github.com/carslab/funnel-api/pkg/db"
	"github.com/carslab/funnel-api/pkg/httpclient"
	"github.com/carslab/funnel-api/pkg/jwtauth"
	"github.com/carslab/funnel-api/pkg/leadsapi"
	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/metrics"
	"github.com/carslab/funnel-api/pkg/objstore"
	"github.com/carslab/funnel-api/pkg/profiling"
	"github.com/carslab/funnel-api/pkg/tracing"
)

// registerFunnelRoutes registers the public funnel API under /api/v1
func registerFunnelRoutes(
	group *gin.RouterGroup,
	generalRateLimiter, submitRateLimiter, logsRateLimiter *middleware.RateLimiter,
	visitorSession gin.HandlerFunc,
	fragmentHandler *handlers.FragmentHandler,
	funnelHandler *handlers.FunnelHandler,
	qualificationHandler *handlers.QualificationHandler,
	logsHandler *handlers.LogsHandler,
) {
	// Fragment delivery needs no visitor identity
	group.GET("/page", generalRateLimiter.Middleware(), fragmentHandler.GetPage)
	group.GET("/fragments/:name", generalRateLimiter.Middleware(), fragmentHandler.GetFragment)
	group.POST("/logs", logsRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024), logsHandler.ReceiveFrontendLogs)

	// Dialog routes are scoped to the visitor session cookie
	funnel := group.Group("/funnel", visitorSession)
	funnel.POST("/open", generalRateLimiter.Middleware(), funnelHandler.OpenDialog)
	funnel.POST("/close", generalRateLimiter.Middleware(), funnelHandler.CloseDialog)
	funnel.POST("/draft", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), funnelHandler.SaveDraft)
	funnel.POST("/submit", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), funnelHandler.SubmitLead)

	qualification := group.Group("/qualification", visitorSession)
	qualification.POST("/open", generalRateLimiter.Middleware(), qualificationHandler.OpenDialog)
	qualification.POST("/optout", generalRateLimiter.Middleware(), qualificationHandler.OptOut)
	qualification.POST("/submit", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), qualificationHandler.SubmitAnswer)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting funnel API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.OTLPEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics with service name from config
	metrics.Init(cfg.Observability.ServiceName)

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Continuous profiling (no-op unless enabled)
	stopProfiler, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Initialize PostgreSQL connection pool. Offline mode keeps the funnel
	// serving with in-memory contact storage only.
	var pool *pgxpool.Pool
	if cfg.Database.WorkOffline {
		logger.Warn("Database offline mode: contact persistence is in-memory only")
	} else {
		pool, err = db.NewPool(context.Background(), db.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
		}
		defer pool.Close()
	}

	// Fragment source: local directory by default, object storage when
	// configured.
	var fragmentSource repository.FragmentSource
	if cfg.Funnel.UseObjectStorage {
		storageClient, storageErr := objstore.NewStorageClient(objstore.Config{
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.BucketName,
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			Prefix:          cfg.Storage.Prefix,
		})
		if storageErr != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(storageErr))
		}
		fragmentSource = repository.NewObjectFragmentSource(storageClient)
	} else {
		fragmentSource = repository.NewLocalFragmentSource(cfg.Funnel.FragmentsDir)
	}

	// Caches
	contactCache := cache.NewContactCache(cfg.Funnel.ContactTTL)
	sessionCache := cache.NewSessionCache(cfg.VisitorSession.TTLHours * 3600)
	fragmentCache := cache.NewFragmentCache(cfg.Funnel.FragmentTTL)

	// Repositories
	var visitorRepo repository.VisitorContactStore
	var submissionRepo repository.SubmissionStore
	var submissionJournal *repository.SubmissionRepository
	if pool != nil {
		visitorRepo = repository.NewVisitorRepository(pool)
		submissionJournal = repository.NewSubmissionRepository(pool)
		submissionRepo = submissionJournal
	}

	// Leads API client
	httpClient := httpclient.NewStandardClient()
	leadsClient, err := leadsapi.New(leadsapi.Config{
		URL:           cfg.LeadAPI.URL,
		Token:         cfg.LeadAPI.Token,
		ProductID:     cfg.LeadAPI.ProductID,
		LandingSource: cfg.LeadAPI.LandingSource,
	}, httpClient)
	if err != nil {
		logger.Fatal("Failed to initialize leads API client", zap.Error(err))
	}

	// Services
	contactStore := services.NewContactStoreService(visitorRepo, contactCache)
	captureService := services.NewCaptureService(leadsClient, contactStore, sessionCache, submissionRepo, cfg, httpClient)
	qualificationService := services.NewQualificationService(leadsClient, contactStore, sessionCache, submissionRepo, cfg, httpClient)
	fragmentService := services.NewFragmentService(fragmentSource, fragmentCache, cfg)

	// Handlers
	fragmentHandler := handlers.NewFragmentHandler(fragmentService)
	funnelHandler := handlers.NewFunnelHandler(captureService)
	qualificationHandler := handlers.NewQualificationHandler(qualificationService)
	logsHandler := handlers.NewLogsHandler(cfg.Logging.Dir)

	var storageReady func() bool
	if pool != nil {
		storageReady = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx) == nil
		}
	}
	healthHandler := handlers.NewHealthHandler(storageReady)

	var submissionsHandler *handlers.SubmissionsHandler
	if submissionJournal != nil {
		submissionsHandler = handlers.NewSubmissionsHandler(submissionJournal)
	}

	// Visitor session cookie
	tokenManager := jwtauth.NewTokenManager(
		cfg.VisitorSession.JWTSecret,
		cfg.VisitorSession.JWTIssuer,
		cfg.VisitorSession.TTLHours,
	)
	visitorSession := middleware.VisitorSessionMiddleware(tokenManager, cfg.VisitorSession)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the landing page origins, plus localhost in development
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "x-internal-funnel-api-auth-token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for the visitor session cookie
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	submitRateLimiter := middleware.NewRateLimiter(5, 10)     // 5 req/sec, burst of 10 (form abuse prevention)
	logsRateLimiter := middleware.NewRateLimiter(20, 40)      // 20 req/sec, burst of 40
	defer generalRateLimiter.Stop()
	defer submitRateLimiter.Stop()
	defer logsRateLimiter.Stop()

	// Operational endpoints (not versioned)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	if submissionsHandler != nil {
		api.GET("/internal/submissions", generalRateLimiter.Middleware(),
			middleware.InternalAPIAuthMiddleware(cfg.Auth.InternalAPIToken), submissionsHandler.ListSubmissions)
	}

	// Public funnel API
	v1 := router.Group("/api/v1")
	registerFunnelRoutes(v1, generalRateLimiter, submitRateLimiter, logsRateLimiter, visitorSession,
		fragmentHandler, funnelHandler, qualificationHandler, logsHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
