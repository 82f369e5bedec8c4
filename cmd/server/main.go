package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsharma-dev/stock-notifier/internal/catalog"
	"github.com/rsharma-dev/stock-notifier/internal/config"
	"github.com/rsharma-dev/stock-notifier/internal/providers"
	"github.com/rsharma-dev/stock-notifier/internal/server"
	"github.com/rsharma-dev/stock-notifier/internal/service"
	"github.com/rsharma-dev/stock-notifier/internal/telegram"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, err := config.New(ctx)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := mustLogger(conf.Dev)

	cat, err := catalog.Load(conf.CatalogPath)
	if err != nil {
		log.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	log.Info("Loaded catalog", "products", len(cat.Products), "recipients", len(cat.Recipients))

	sender, err := telegram.NewSender(conf.TelegramToken, conf.SendTimeout)
	if err != nil {
		log.Error("Failed to create telegram sender", "error", err)
		os.Exit(1)
	}

	checkers := map[catalog.Source]service.Checker{
		catalog.SourceAmazon: providers.NewAmazonProvider(conf.AmazonBaseURL, conf.AmazonPartnerTag),
		catalog.SourceCroma:  providers.NewCromaProvider(conf.CromaBaseURL, conf.DefaultPincode),
	}

	checkSvc := service.NewStockCheck(checkers, conf.CheckTimeout, log)
	broadcaster := service.NewBroadcaster(sender, conf.SendPace, log)
	srv := server.New(conf.AuthSecret, cat, checkSvc, broadcaster, log)

	httpServer := &http.Server{
		Addr:              conf.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd
	}

	go func() {
		<-ctx.Done()
		log.Info("Stopping server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down server", "error", err)
		}
	}()

	log.Info("Starting server", "addr", conf.Addr)
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}

	log.Info("Stopped server")
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
