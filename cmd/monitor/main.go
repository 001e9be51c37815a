package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"robux-monitor/internal/fetch"
	"robux-monitor/internal/monitor"
	"robux-monitor/internal/notify"
	"robux-monitor/internal/store"
	"robux-monitor/internal/types"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		singleFlag  = flag.Bool("single", false, "Track the single price-per-100 listing instead of the bundle list")
		profileFlag = flag.String("profile", "http", "Fetch profile (http, browser)")
		storeFlag   = flag.String("store", "gist", "Snapshot store backend (gist, sqlite)")
		notifyFlag  = flag.String("notify", "discord", "Alert backend (discord, telegram)")
		dbFlag      = flag.String("db", "./snapshots.db", "SQLite database path (sqlite store only)")
		timeoutFlag = flag.Duration("timeout", 10*time.Second, "Request timeout")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	// Setup logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verboseFlag {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	cfg, err := types.LoadConfig()
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	cfg.SingleItem = *singleFlag
	cfg.FetchProfile = *profileFlag
	cfg.StoreBackend = *storeFlag
	cfg.NotifyBackend = *notifyFlag
	cfg.SQLitePath = *dbFlag
	cfg.Timeout = *timeoutFlag

	// Config validation is the only non-zero exit; everything past
	// this point logs and terminates normally, the bot runs
	// unattended on a schedule.
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	var fetcher fetch.Fetcher
	switch cfg.FetchProfile {
	case "browser":
		fetcher = fetch.NewBrowser(cfg, logger)
	default:
		fetcher = fetch.NewClient(cfg, logger)
	}

	var st store.Store
	switch cfg.StoreBackend {
	case "sqlite":
		st, err = store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			logger.Errorf("failed to open snapshot store: %v", err)
			return
		}
	default:
		st = store.NewGistStore(cfg.GistID, cfg.GistToken, logger)
	}
	defer st.Close()

	var notifier notify.Notifier
	switch cfg.NotifyBackend {
	case "telegram":
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Errorf("failed to initialize telegram notifier: %v", err)
			return
		}
	default:
		notifier = notify.NewDiscordNotifier(cfg.WebhookURL, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Infof("running robux monitor against %s", cfg.TargetURL)
	m := monitor.New(cfg, fetcher, st, notifier, logger)
	if err := m.Run(ctx); err != nil {
		logger.Errorf("run aborted: %v", err)
		return
	}
	logger.Infof("run complete")
}
