package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/suPer8Hu/ai-assistant/internal/chat"
	"github.com/suPer8Hu/ai-assistant/internal/config"
	"github.com/suPer8Hu/ai-assistant/internal/db"
	"github.com/suPer8Hu/ai-assistant/internal/httpapi"
	"github.com/suPer8Hu/ai-assistant/internal/httpapi/handlers"
	"github.com/suPer8Hu/ai-assistant/internal/store/rabbitmq"
	"github.com/suPer8Hu/ai-assistant/internal/store/redisstore"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	gin.SetMode(cfg.GinMode)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Warn("close db failed", "err", err)
		}
	}()
	if err := db.Migrate(gdb, chat.Models()...); err != nil {
		return err
	}

	reg := buildRegistry(cfg)
	lister, err := reg.Catalog(cfg.AIProvider)
	if err != nil {
		return err
	}

	svcOpts := []chat.Option{chat.WithLogger(logger)}
	deps := handlers.Deps{DB: gdb, Logger: logger}

	if cfg.RedisAddr != "" {
		client, err := redisstore.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		store := redisstore.NewStore(client, time.Duration(cfg.HistoryCacheTTLSeconds)*time.Second)
		defer store.Close()
		svcOpts = append(svcOpts, chat.WithHistoryCache(store))
		deps.Redis = store
		logger.Info("history cache enabled", "addr", cfg.RedisAddr)
	}

	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			return fmt.Errorf("rabbitmq publisher: %w", err)
		}
		defer pub.Close()
		svcOpts = append(svcOpts, chat.WithEventPublisher(pub))
		deps.Events = pub
		logger.Info("message events enabled", "queue", cfg.RabbitQueue)
	}

	deps.ChatSvc = chat.NewService(chat.NewRepo(gdb), reg, cfg.AIProvider, svcOpts...)
	deps.Catalog = chat.NewCatalog(lister, logger)

	h, err := handlers.NewHandler(deps)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(cfg, h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "provider", cfg.AIProvider, "db", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
