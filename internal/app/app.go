package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/rezzy/server/internal/domain/analysis"
	"github.com/rezzy/server/internal/domain/billing"
	"github.com/rezzy/server/internal/domain/generation"
	"github.com/rezzy/server/internal/domain/jobs"
	"github.com/rezzy/server/internal/domain/payment"
	"github.com/rezzy/server/internal/domain/resume"
	"github.com/rezzy/server/internal/domain/user"

	// Inbound adapters (HTTP handlers)
	ginadapter "github.com/rezzy/server/internal/adapter/inbound/gin"

	// Ports
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"

	// Outbound adapters
	"github.com/rezzy/server/internal/adapter/outbound/extract"
	"github.com/rezzy/server/internal/adapter/outbound/identity"
	"github.com/rezzy/server/internal/adapter/outbound/jobsearch"
	"github.com/rezzy/server/internal/adapter/outbound/llm"
	"github.com/rezzy/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/rezzy/server/internal/adapter/outbound/redis"
	s3adapter "github.com/rezzy/server/internal/adapter/outbound/s3"
	stripeadapter "github.com/rezzy/server/internal/adapter/outbound/stripe"

	// Shared infrastructure
	_ "github.com/rezzy/server/docs" // swagger docs
	sharedcache "github.com/rezzy/server/internal/shared/cache"
	"github.com/rezzy/server/internal/shared/config"
	"github.com/rezzy/server/internal/shared/database"
	"github.com/rezzy/server/internal/shared/httpclient"
	"github.com/rezzy/server/internal/shared/tracing"
	"github.com/rezzy/server/internal/utils/metrics"
	"github.com/rezzy/server/internal/utils/middleware"
)

const serviceName = "rezzy-server"

// App wires infrastructure, domains and the HTTP router.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   *goredis.Client
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	// Outbound adapters
	verifier outbound.TokenVerifierPort
	llm      outbound.LLMProviderPort
	storage  outbound.ObjectStoragePort
	payments outbound.PaymentProviderPort
	jobBoard outbound.JobSearchPort // nil when job search is not configured

	// Domain services
	userDomain       inbound.UserDomain
	billingDomain    inbound.BillingDomain
	analysisDomain   inbound.AnalysisDomain
	generationDomain inbound.GenerationDomain
	resumeDomain     inbound.ResumeDomain
	paymentDomain    inbound.PaymentDomain
	jobsDomain       inbound.JobsDomain

	// Cleanup functions, run in reverse order by Stop
	cleanupFuncs []func(context.Context)
}

// New creates the application. ctx bounds background work such as JWKS
// refreshes and is expected to live as long as the process.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(""),
	}

	if err := app.initInfrastructure(ctx); err != nil {
		app.Stop(ctx)
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	if err := app.initAdapters(ctx); err != nil {
		app.Stop(ctx)
		return nil, fmt.Errorf("init adapters: %w", err)
	}

	app.initDomains()
	app.router = app.setupRouter()

	return app, nil
}

// initInfrastructure initializes tracing, database and cache connections.
func (a *App) initInfrastructure(ctx context.Context) error {
	shutdownTracing, err := tracing.Init(ctx, &a.config.Tracing, a.logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.onStop(func(ctx context.Context) {
		if err := shutdownTracing(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	})

	db, err := database.New(&a.config.Database, a.logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.db = db
	a.onStop(func(context.Context) { _ = database.Close(db) })

	if a.config.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		a.logger.Info("database schema migrated")
	}

	// Redis is optional; without it rate limiting and checkout replay are off.
	if a.config.Redis.Address != "" {
		client, err := sharedcache.NewRedisClient(ctx, &a.config.Redis)
		if err != nil {
			a.logger.Warn("Redis connection failed, continuing without rate limiting", zap.Error(err))
		} else {
			a.redis = client
			a.onStop(func(context.Context) { _ = client.Close() })
		}
	}

	return nil
}

// initAdapters builds the provider clients.
func (a *App) initAdapters(ctx context.Context) error {
	if a.config.Auth.Disabled {
		a.logger.Warn("token verification disabled, trusting the " + middleware.DevUserHeader + " header")
	}
	if a.config.Auth.JWKSURL != "" || a.config.Auth.Issuer != "" {
		verifier, err := identity.NewJWKSVerifier(ctx, &a.config.Auth)
		if err != nil {
			return fmt.Errorf("init token verifier: %w", err)
		}
		a.verifier = verifier
	} else if !a.config.Auth.Disabled {
		return fmt.Errorf("auth: jwks_url or issuer is required unless auth is disabled")
	}

	httpClient := httpclient.New(&a.config.HTTPClient)

	provider, err := llm.NewProvider(ctx, &a.config.LLM, httpClient, a.metrics, a.logger)
	if err != nil {
		return fmt.Errorf("init llm provider: %w", err)
	}
	a.llm = provider

	if a.config.Jobs.APIKey != "" {
		client := jobsearch.NewClient(&jobsearch.Config{
			APIKey:  a.config.Jobs.APIKey,
			BaseURL: a.config.Jobs.BaseURL,
			Host:    a.config.Jobs.Host,
		}, httpClient, a.logger)
		a.jobBoard = jobsearch.NewBreakerSearcher(client, &jobsearch.BreakerConfig{
			FailureThreshold: a.config.Jobs.FailureThreshold,
			OpenTimeout:      a.config.Jobs.CircuitTimeout,
			RequestTimeout:   a.config.Jobs.RequestTimeout,
		}, a.metrics, a.logger)
	} else {
		a.logger.Warn("job search disabled: no job board api key configured")
	}

	s3Client, err := s3adapter.NewClient(ctx, &a.config.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}
	a.storage = s3adapter.NewObjectStorageAdapter(s3Client, a.config.Storage.Bucket)

	a.payments = stripeadapter.NewProvider(&stripeadapter.Config{
		APIKey:        a.config.Stripe.SecretKey,
		WebhookSecret: a.config.Stripe.WebhookSecret,
	})

	return nil
}

// initDomains initializes all domain services with their adapters.
func (a *App) initDomains() {
	userDB := postgres.NewUserAdapter(a.db)
	usageDB := postgres.NewUsagePeriodAdapter(a.db)

	a.userDomain = user.NewUserDomain(userDB, a.logger.Named("user"))

	plans := billing.PlanTableFromConfig(&a.config.Plans)
	gate := billing.NewGate(userDB, usageDB, plans, time.Now)
	a.billingDomain = billing.NewBillingDomain(gate, userDB, usageDB, a.metrics, a.logger.Named("billing"))
	a.logger.Info("plan table loaded",
		zap.String("version", plans.Version()),
		zap.Int("plans", len(plans.Plans())),
	)

	a.analysisDomain = analysis.NewAnalysisDomain(
		a.billingDomain,
		a.llm,
		postgres.NewAnalysisAdapter(a.db),
		a.logger.Named("analysis"),
	)

	a.generationDomain = generation.NewGenerationDomain(a.billingDomain, a.llm, a.logger.Named("generation"))

	a.resumeDomain = resume.NewResumeDomain(
		a.storage,
		extract.NewExtractor(&extract.Config{
			MaxPartBytes: a.config.Upload.MaxBytes,
			MaxChars:     analysis.MaxInputLength,
		}),
		postgres.NewResumeFileAdapter(a.db),
		resume.ConfigFromSettings(&a.config.Upload, &a.config.Storage),
		a.logger.Named("resume"),
	)

	a.paymentDomain = payment.NewPaymentDomain(
		a.payments,
		userDB,
		postgres.NewPaymentAdapter(a.db),
		payment.ConfigFromSettings(&a.config.Stripe),
		a.metrics,
		a.logger.Named("payment"),
	)

	a.jobsDomain = jobs.NewJobsDomain(userDB, plans, a.jobBoard, a.logger.Named("jobs"))
}

// setupRouter creates the Gin router with global middleware and all routes.
func (a *App) setupRouter() *gin.Engine {
	switch a.config.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(a.config.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	if a.config.Tracing.Enabled {
		r.Use(otelgin.Middleware(a.config.Tracing.ServiceName))
	}
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(a.corsConfig()))

	r.GET("/health", ginadapter.NewHealthHandler(serviceName).Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	handlers := &ginadapter.Handlers{
		User:       ginadapter.NewUserHandler(a.userDomain),
		Billing:    ginadapter.NewBillingHandler(a.billingDomain),
		Analysis:   ginadapter.NewAnalysisHandler(a.analysisDomain),
		Generation: ginadapter.NewGenerationHandler(a.generationDomain),
		Resume:     ginadapter.NewResumeHandler(a.resumeDomain),
		Payment:    ginadapter.NewPaymentHandler(a.paymentDomain),
		Jobs:       ginadapter.NewJobsHandler(a.jobsDomain),
	}

	routeMiddleware := &ginadapter.RouteMiddleware{
		Auth: middleware.Auth(a.verifier, middleware.AuthConfig{Disabled: a.config.Auth.Disabled}),
	}
	if a.redis != nil {
		if a.config.RateLimit.Enabled {
			routeMiddleware.LLMRateLimit = middleware.RateLimitByUser(redisadapter.NewRateLimiter(a.redis), middleware.RateLimitConfig{
				Limit:  a.config.RateLimit.Limit,
				Window: a.config.RateLimit.Window,
				OnLimited: func(c *gin.Context) {
					a.metrics.RecordRateLimited(c.FullPath())
				},
				Logger: a.logger,
			})
		}
		idempotency := middleware.DefaultIdempotencyConfig()
		idempotency.Logger = a.logger
		routeMiddleware.CheckoutIdempotency = middleware.Idempotency(a.redis, idempotency)
	}

	ginadapter.RegisterRoutes(r.Group("/api"), handlers, routeMiddleware)

	return r
}

func (a *App) corsConfig() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(a.config.CORS.AllowOrigins) > 0 {
		cors.AllowOrigins = a.config.CORS.AllowOrigins
	}
	return cors
}

func (a *App) onStop(fn func(context.Context)) {
	a.cleanupFuncs = append(a.cleanupFuncs, fn)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases resources in reverse order of acquisition.
func (a *App) Stop(ctx context.Context) {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i](ctx)
	}
	a.cleanupFuncs = nil

	_ = a.logger.Sync()
}
