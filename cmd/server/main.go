package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Buay-SS/slipbot/internal/bot"
	"github.com/Buay-SS/slipbot/internal/cache"
	"github.com/Buay-SS/slipbot/internal/config"
	"github.com/Buay-SS/slipbot/internal/line"
	"github.com/Buay-SS/slipbot/internal/ocr"
	"github.com/Buay-SS/slipbot/internal/sheets"
	"github.com/Buay-SS/slipbot/internal/storage"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if cfg.ChannelAccessToken == "" || cfg.ChannelSecret == "" {
		return errors.New("CHANNEL_ACCESS_TOKEN and CHANNEL_SECRET are required")
	}
	if cfg.SheetID == "" || cfg.GoogleCredentialsJSON == "" {
		return errors.New("GOOGLE_SHEET_ID and GOOGLE_CREDENTIALS_JSON are required")
	}

	refreshInterval, err := time.ParseDuration(cfg.RefreshInterval)
	if err != nil {
		return errors.New("invalid REFRESH_INTERVAL: " + cfg.RefreshInterval)
	}

	db, err := cache.Open(cfg.CacheDB)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := sheets.New(ctx, []byte(cfg.GoogleCredentialsJSON), cfg.SheetID)
	if err != nil {
		return err
	}

	archive, err := storage.NewArchive(cfg.UploadDir)
	if err != nil {
		return err
	}

	lineClient, err := line.NewClient(cfg.ChannelAccessToken)
	if err != nil {
		return err
	}

	refs := cache.NewRepository(db)
	if n, err := refs.CountRefs(); err != nil {
		log.Warn("ref cache count", zap.Error(err))
	} else {
		log.Info("ref cache ready", zap.Int("refs", n))
	}

	b := bot.New(
		log,
		lineClient,
		ocr.NewClient(cfg.OCRSpaceAPIKey),
		store,
		refs,
		archive,
		bot.Settings{
			AdminUserID:            cfg.AdminUserID,
			ChannelSecret:          cfg.ChannelSecret,
			RulesFile:              cfg.RulesFile,
			PatternNeedsIdentifier: cfg.PatternNeedsIdentifier,
		},
	)
	b.Refresh(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/", b.Health)
	r.Post("/callback", b.Callback)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Aliases, reply templates, and rules are edited directly in the
	// spreadsheet; poll so edits take effect without a restart.
	g.Go(func() error {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				b.Refresh(ctx)
			}
		}
	})

	return g.Wait()
}
