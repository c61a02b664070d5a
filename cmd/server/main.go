package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/infrastructure/buffer"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskflow/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskflow/internal/infrastructure/redis"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/internal/router"
	"github.com/fastygo/taskflow/internal/services"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/logger"
	"github.com/fastygo/taskflow/pkg/password"
	"github.com/fastygo/taskflow/pkg/token"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/repository/memory"
	"github.com/fastygo/taskflow/repository/postgres"
	redisRepo "github.com/fastygo/taskflow/repository/redis"
	"github.com/fastygo/taskflow/usecase"
	authUC "github.com/fastygo/taskflow/usecase/auth"
	"github.com/fastygo/taskflow/usecase/onboarding"
	projectUC "github.com/fastygo/taskflow/usecase/project"
	taskUC "github.com/fastygo/taskflow/usecase/task"
	teamUC "github.com/fastygo/taskflow/usecase/team"
)

type repositories struct {
	users       repository.UserRepository
	teams       repository.TeamRepository
	projects    repository.ProjectRepository
	tasks       repository.TaskRepository
	onboarding  repository.OnboardingRepository
	revocations repository.RevocationRepository
	db          monitor.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	repos := openStorage(appCtx, cfg, manager, zapLogger)

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	if redisClient != nil {
		repos.revocations = redisRepo.NewRevocationRepository(redisClient)
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	} else {
		zapLogger.Warn("REDIS_URL not set, token revocation kept in process memory")
	}

	var bufferStore *buffer.Store
	if cfg.Buffer.Enabled {
		bufferStore, err = buffer.Open(cfg.Buffer.Path, "onboarding")
		if err != nil {
			zapLogger.Fatal("failed to open buffer store", zap.Error(err))
		}
		manager.Register("buffer", func(ctx context.Context) error {
			return bufferStore.Close()
		})
	}

	mon := monitor.New(repos.db, redisClient, bufferStore, cfg.Context.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	var onboardingBuffer usecase.OnboardingBuffer
	if bufferStore != nil {
		bufferProcessor := services.NewBufferProcessor(
			bufferStore,
			mon,
			repos.onboarding,
			zapLogger,
			services.ProcessorConfig{
				Interval:   cfg.Buffer.SyncInterval,
				BatchSize:  cfg.Buffer.BatchSize,
				MaxRetries: cfg.Buffer.MaxRetry,
				Retention:  cfg.Buffer.Retention,
			},
		)
		bufferProcessor.Start()
		manager.Register("buffer_processor", func(ctx context.Context) error {
			bufferProcessor.Stop(ctx)
			return nil
		})
		onboardingBuffer = services.NewBufferBridge(bufferProcessor)
	}

	tokens, err := token.New(cfg.JWT.Secret, token.WithIssuer(cfg.JWT.Issuer), token.WithTTL(cfg.JWT.TTL))
	if err != nil {
		zapLogger.Fatal("token service", zap.Error(err))
	}

	seeder := onboarding.New(repos.onboarding, onboardingBuffer, zapLogger)
	authUseCase := authUC.New(repos.users, repos.revocations, tokens, password.NewHasher(cfg.Password.BcryptCost), seeder, zapLogger)
	teamUseCase := teamUC.New(repos.teams, zapLogger)
	projectUseCase := projectUC.New(repos.teams, repos.projects, zapLogger)
	taskUseCase := taskUC.New(repos.users, repos.teams, repos.projects, repos.tasks, taskUC.Policy{
		StrictMutations:     cfg.Access.StrictTaskMutations,
		StrictProjectFilter: cfg.Access.StrictProjectFilter,
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Team:    apiHandler.NewTeamHandler(teamUseCase, ctxAdapter, zapLogger),
		Project: apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware, zapLogger)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("revocation", redisClient != nil),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStorage connects the configured primary store. The in-memory store
// also backs revocations until Redis replaces them.
func openStorage(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) repositories {
	mem := memory.New()
	if !cfg.UsesPostgres() {
		zapLogger.Warn("using in-memory storage, data is lost on restart")
		return repositories{
			users:       mem.Users(),
			teams:       mem.Teams(),
			projects:    mem.Projects(),
			tasks:       mem.Tasks(),
			onboarding:  mem.Onboarding(),
			revocations: mem.Revocations(),
			db:          mem,
		}
	}

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	return repositories{
		users:       postgres.NewUserRepository(pool),
		teams:       postgres.NewTeamRepository(pool),
		projects:    postgres.NewProjectRepository(pool),
		tasks:       postgres.NewTaskRepository(pool),
		onboarding:  postgres.NewOnboardingRepository(pool),
		revocations: mem.Revocations(),
		db:          pool,
	}
}
