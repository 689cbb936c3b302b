// Command brainly-server starts the Brainly HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/brainly/internal/config"
	"github.com/and161185/brainly/internal/limiter"
	"github.com/and161185/brainly/internal/migrate"
	"github.com/and161185/brainly/internal/repository"
	"github.com/and161185/brainly/internal/repository/memory"
	"github.com/and161185/brainly/internal/repository/postgres"
	httpserver "github.com/and161185/brainly/internal/server/http"
	"github.com/and161185/brainly/internal/service"
	"github.com/and161185/brainly/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

type stores struct {
	users    repository.UserRepository
	contents repository.ContentRepository
	links    repository.ShareLinkRepository
	lim      limiter.Limiter
	ping     func(ctx context.Context) error
	close    func()
}

func openMemory(p limiter.Policy) *stores {
	m := memory.New()
	return &stores{
		users:    m.Users(),
		contents: m.Contents(),
		links:    m.ShareLinks(),
		lim:      limiter.NewMemory(p),
		close:    func() {},
	}
}

func openPostgres(ctx context.Context, dsn string, p limiter.Policy, log *zap.Logger) (*stores, error) {
	if err := migrate.Up(ctx, dsn, log); err != nil {
		return nil, err
	}
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &stores{
		users:    postgres.NewUserRepo(db),
		contents: postgres.NewContentRepo(db),
		links:    postgres.NewShareLinkRepo(db),
		lim:      limiter.NewPG(db.Pool, p),
		ping:     db.Ping,
		close:    db.Close,
	}, nil
}

// main loads configuration, opens storage and serves HTTP until SIGINT/SIGTERM.
func main() {
	config.LoadDotEnv()
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)
	if cfg.UsesInsecureSecret() {
		logger.Warn("JWT_PASSWORD not set, signing tokens with the built-in development secret")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := limiter.Policy{Window: cfg.LoginWindow, MaxFails: cfg.LoginMaxFails, BlockFor: cfg.LoginBlock}
	var st *stores
	if cfg.UsesMemoryStore() {
		logger.Warn("no database configured, data lives in memory only")
		st = openMemory(policy)
	} else {
		st, err = openPostgres(ctx, cfg.DatabaseDSN, policy, logger)
		if err != nil {
			logger.Fatal("open postgres", zap.Error(err))
		}
	}
	defer st.close()

	tokens := token.New([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Services
	authSvc := service.NewAuthService(st.users, tokens, st.lim)
	contentSvc := service.NewContentService(st.contents)
	shareSvc := service.NewShareService(st.links, st.contents, st.users)

	app := httpserver.New(authSvc, contentSvc, shareSvc, tokens, logger, httpserver.WithPing(st.ping))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("graceful shutdown timed out", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			st.close()
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
