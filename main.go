package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"monollogs/internal/api"
	"monollogs/internal/archive"
	"monollogs/internal/config"
	"monollogs/internal/fixtures"
	"monollogs/internal/logging"
	"monollogs/internal/redis"
	"monollogs/internal/storage"
	"monollogs/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("MONOL_CONSOLE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		if _, err := strconv.Atoi(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "invalid port %q\n", os.Args[1])
			os.Exit(1)
		}
		cfg.SetPort(os.Args[1])
	}
	log := logging.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}
	seed, err := loadSeed(ctx, cfg, log)
	if err != nil {
		log.Fatalf("load fixtures: %v", err)
	}
	reports, err := openArchive(ctx, cfg, log)
	if err != nil {
		log.Fatalf("open report archive: %v", err)
	}
	defer reports.Close()

	handler := api.NewHandler(api.Options{
		Store:          store.New(seed, loc),
		Reports:        reports,
		Logger:         log,
		Location:       loc,
		StaleAfterDays: cfg.Insights.StaleAfterDays,
		TodoItemLimit:  cfg.Insights.TodoItemLimit,
		BaseURL:        cfg.BaseURL(),
		TemplatePath:   cfg.BasicConfig.TemplatePath,
		ReportDelay:    cfg.ReportDelay(),
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.BasicConfig.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr": srv.Addr,
			"url":  cfg.BaseURL(),
		}).Info("session console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// loadSeed returns the built-in fixture, or the configured database's
// contents. An empty database is seeded with the built-in fixture first.
func loadSeed(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (fixtures.Set, error) {
	if cfg.Fixtures.Source != "database" {
		log.Info("using built-in fixtures")
		return fixtures.Default(), nil
	}
	driver := cfg.Fixtures.Driver
	db, err := storage.Open(driver, cfg)
	if err != nil {
		return fixtures.Set{}, err
	}
	defer db.Close()
	if err := storage.Migrate(ctx, db, driver); err != nil {
		return fixtures.Set{}, err
	}
	set, err := storage.LoadFixtures(ctx, db)
	if err != nil {
		return fixtures.Set{}, err
	}
	if len(set.Sessions) == 0 {
		log.WithField("driver", driver).Info("fixture database empty, seeding built-in fixtures")
		set = fixtures.Default()
		if err := storage.Seed(ctx, db, set); err != nil {
			return fixtures.Set{}, err
		}
	}
	log.WithFields(logrus.Fields{
		"driver":   driver,
		"sessions": len(set.Sessions),
		"todos":    len(set.Todos),
	}).Info("loaded fixtures from database")
	return set, nil
}

func openArchive(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (archive.Store, error) {
	if !cfg.Redis.Enabled {
		log.WithField("ttl", cfg.ReportTTL().String()).Info("report archive: memory")
		return archive.NewStore(archive.StoreTypeMemory, archive.WithTTL(cfg.ReportTTL()))
	}
	client, err := redis.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("ttl", cfg.ReportTTL().String()).Info("report archive: redis")
	return archive.NewStore(archive.StoreTypeRedis,
		archive.WithRedisClient(client),
		archive.WithTTL(cfg.ReportTTL()),
	)
}
