// Command activitydash runs the activity intelligence dashboard. It loads a
// raw activity snapshot, enriches it into money-movement analytics, and serves
// the results over HTTP for the UI and the AI assistant.
//
// Usage:
//
//	activitydash --config config.yaml
//	activitydash setup    (interactive configuration wizard)
//	activitydash          (uses CLI arguments)
//
// Optional environment variables:
//
//	For Binance quotes: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit quotes: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Hyperliquid quotes: HYPERLIQUID_PRIVATE_KEY, HYPERLIQUID_API_URL
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Trademarathon/portfolio-tracker-sub003/config"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/clients"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/ingest"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/pricer"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/setup"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/storage/reports"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/web"
)

var kpiStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		os.Args = append(os.Args[:1], "--config", "config.gen.yaml")
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	livePricer, err := buildLivePricer(cfg)
	if err != nil {
		logger.Fatal("failed to build live quote source", zap.Error(err))
	}

	store, err := reports.NewWALStore(cfg.WalDir)
	if err != nil {
		logger.Fatal("failed to open report store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := web.NewServer(cfg.ListenAddr, store, logger)
	pipeline := internal.NewPipeline(logger)

	runOnce := func() {
		snapshot, err := ingest.LoadFile(cfg.SnapshotPath)
		if err != nil {
			logger.Error("failed to load activity snapshot", zap.Error(err))
			return
		}

		prices := pricer.RefreshPrices(ctx, livePricer, snapshot.Events, snapshot.Prices, logger)
		report := pipeline.Run(snapshot.Events, snapshot.Connections, prices)

		server.Publish(report)
		if err := store.Append(report); err != nil {
			logger.Error("failed to persist report", zap.Error(err))
		}

		fmt.Println(kpiStyle.Render(renderKpi(report.Kpi)))
	}

	runOnce()
	go func() {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()

	logger.Info("dashboard listening", zap.String("addr", cfg.ListenAddr))
	if len(cfg.TLSDomains) > 0 {
		err = server.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.TLSCacheDir)
	} else {
		err = server.Start(ctx)
	}
	if err != nil {
		logger.Fatal("dashboard server failed", zap.Error(err))
	}
}

func buildLivePricer(cfg config.Config) (pricer.LivePricer, error) {
	switch cfg.PriceSource {
	case config.PriceSourceNone:
		return nil, nil
	case config.PriceSourceBinance:
		client := clients.NewBinanceClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))
		return pricer.NewBinancePricer(client), nil
	case config.PriceSourceBybit:
		client := clients.NewBybitClient(os.Getenv("BYBIT_API_KEY"), os.Getenv("BYBIT_API_SECRET"))
		return pricer.NewBybitPricer(client), nil
	case config.PriceSourceHyperliquid:
		key := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if key == "" {
			return nil, fmt.Errorf("HYPERLIQUID_PRIVATE_KEY environment variable must be set")
		}
		client, err := clients.NewHyperliquidClient(key, os.Getenv("HYPERLIQUID_API_URL"))
		if err != nil {
			return nil, err
		}
		return pricer.NewHyperliquidPricer(client.Info()), nil
	default:
		return nil, fmt.Errorf("unsupported price source %q", cfg.PriceSource)
	}
}

func renderKpi(kpi domain.ActivityKpiSummary) string {
	lastMovement := "never"
	if kpi.LastMovementAt > 0 {
		lastMovement = time.UnixMilli(kpi.LastMovementAt).UTC().Format(time.RFC3339)
	}
	topRoute := kpi.TopRoute
	if topRoute == "" {
		topRoute = "-"
	}
	return fmt.Sprintf(
		"24h moved: $%s\n24h fees:  $%s\nTop route: %s\nLast move: %s",
		kpi.MovedUSD.Round(2).String(),
		kpi.FeeUSD.Round(2).String(),
		topRoute,
		lastMovement,
	)
}
