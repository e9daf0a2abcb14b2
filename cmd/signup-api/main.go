package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/signup-sheets-api/api/swagger"
	"github.com/noah-isme/signup-sheets-api/internal/handler"
	internalmiddleware "github.com/noah-isme/signup-sheets-api/internal/middleware"
	"github.com/noah-isme/signup-sheets-api/internal/repository"
	"github.com/noah-isme/signup-sheets-api/internal/service"
	"github.com/noah-isme/signup-sheets-api/pkg/cache"
	"github.com/noah-isme/signup-sheets-api/pkg/config"
	"github.com/noah-isme/signup-sheets-api/pkg/database"
	"github.com/noah-isme/signup-sheets-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/signup-sheets-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/signup-sheets-api/pkg/middleware/requestid"
	"github.com/noah-isme/signup-sheets-api/pkg/storage"
)

// @title Signup Sheets API
// @version 1.0.0
// @description Course rosters, time-slotted sign-up sheets and grades.
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	blob, err := openBlob(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open snapshot store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	store := repository.NewStateStore(blob, logr, repository.WithFlushObserver(metrics))
	if err := store.Load(ctx); err != nil {
		logr.Fatal("failed to load snapshot", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logr.Warn("failed to close snapshot store", zap.Error(err))
		}
	}()

	validate := validator.New()
	courseService := service.NewCourseService(store, validate, logr)
	sheetService := service.NewSheetService(store, validate, logr)
	slotService := service.NewSlotService(store, cfg.Sheets.MaxSlotsPerBatch, validate, logr)
	signupService := service.NewSignupService(store, metrics, validate, logr)
	gradeService := service.NewGradeService(store, metrics, validate, logr)
	exportService := service.NewExportService(store, nil, nil, logr)

	if cfg.Seed.RosterFile != "" {
		seed, err := service.LoadRosterSeed(cfg.Seed.RosterFile)
		if err != nil {
			logr.Fatal("failed to read roster seed", zap.String("path", cfg.Seed.RosterFile), zap.Error(err))
		}
		if err := service.ApplyRosterSeed(ctx, courseService, seed, logr); err != nil {
			logr.Fatal("failed to apply roster seed", zap.Error(err))
		}
	}

	if cfg.Mirror.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		mirrorRepo := repository.NewMirrorRepository(client, logr)
		defer mirrorRepo.Close() //nolint:errcheck

		mirror := service.NewMirrorService(store, mirrorRepo, service.MirrorConfig{
			Key:        cfg.Mirror.Key,
			Workers:    cfg.Mirror.Workers,
			Retries:    cfg.Mirror.Retries,
			RetryDelay: cfg.Mirror.RetryDelay,
		}, metrics, logr)
		store.OnCommit(mirror.Notify)
		mirror.Start(ctx)
		defer mirror.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics.Handler(), func() error {
		if _, doc := store.Latest(); doc == nil {
			return errors.New("snapshot not loaded")
		}
		return nil
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Courses: handler.NewCourseHandler(courseService),
		Sheets:  handler.NewSheetHandler(sheetService, slotService, exportService),
		Slots:   handler.NewSlotHandler(slotService, signupService),
		Grades:  handler.NewGradeHandler(gradeService),
		Metrics: metricsHandler,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

// openBlob picks the snapshot backend named by STORE_DRIVER.
func openBlob(ctx context.Context, cfg *config.Config) (storage.Blob, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFile, "":
		return storage.NewFileBlob(cfg.Store.Path)
	case config.StoreDriverBolt:
		return storage.NewBoltBlob(cfg.Store.Path)
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := repository.NewSnapshotRepository(db, repository.DialectPostgres)
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil
	case config.StoreDriverSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		repo := repository.NewSnapshotRepository(db, repository.DialectSQLite)
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
