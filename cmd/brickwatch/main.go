package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jdhwiz/brickwatch/internal/api"
	"github.com/jdhwiz/brickwatch/internal/artifacts"
	"github.com/jdhwiz/brickwatch/internal/browser"
	"github.com/jdhwiz/brickwatch/internal/checker"
	"github.com/jdhwiz/brickwatch/internal/config"
	"github.com/jdhwiz/brickwatch/internal/fetcher"
	"github.com/jdhwiz/brickwatch/internal/ledger"
	"github.com/jdhwiz/brickwatch/internal/notify"
	"github.com/jdhwiz/brickwatch/internal/ratelimit"
	"github.com/jdhwiz/brickwatch/internal/registry"
	"github.com/jdhwiz/brickwatch/internal/report"
	"github.com/jdhwiz/brickwatch/pkg/logger"
)

func main() {
	var (
		urlFile    = flag.String("file", "urls.txt", "File containing product URLs (one per line, # for comments)")
		configFile = flag.String("config", "", "Optional YAML config file")
		headless   = flag.Bool("headless", true, "Run browser in headless mode")
		interval   = flag.Duration("interval", 0, "Re-run every interval; 0 runs once and exits")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting brickwatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	targets, err := registry.Load(*urlFile)
	if err != nil {
		logger.Error("failed to load targets", "file", *urlFile, "error", err)
		os.Exit(1)
	}
	if len(targets) == 0 {
		fmt.Printf("No URLs configured. Add product URLs to %s\n", *urlFile)
		os.Exit(1)
	}
	logger.Info("targets loaded", "file", *urlFile, "count", len(targets))

	store := artifacts.NewStore(cfg.Artifacts.Dir)
	if err := store.Clean(); err != nil {
		logger.Error("failed to prepare artifacts dir", "error", err)
		os.Exit(1)
	}

	led, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		logger.Error("failed to open notification ledger", "path", cfg.Ledger.Path, "error", err)
		os.Exit(1)
	}

	var notifier notify.Notifier
	if cfg.Email.Recipient != "" {
		mailer, err := notify.NewMailer(notify.MailerOptions{
			Host:      cfg.Email.SMTPServer,
			Port:      cfg.Email.SMTPPort,
			From:      cfg.Email.FromAddress,
			Recipient: cfg.Email.Recipient,
			Username:  cfg.Email.Username,
			Password:  cfg.Email.Password,
		})
		if err != nil {
			logger.Error("failed to configure mailer", "error", err)
			os.Exit(1)
		}
		notifier = mailer
	} else {
		logger.Warn("no email recipient configured, notifications disabled")
	}

	notifyStates, err := cfg.NotifyStates()
	if err != nil {
		logger.Error("invalid notification policy", "error", err)
		os.Exit(1)
	}

	browserOpts := &browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
		Timeout:        cfg.Settings.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
	}

	f := fetcher.NewPlaywrightFetcher(browserOpts, cfg.Settings.PageWait)
	limiter := ratelimit.NewBackoffRateLimiter(cfg.Settings.CheckDelay, cfg.Settings.CheckDelayMax)

	chk := checker.New(f, notifier, led, limiter, store, checker.Options{
		NotifyStates: notifyStates,
		SendSummary:  cfg.Email.SendSummary,
	})

	reports := report.NewStore()

	if cfg.Server.Enabled {
		handlers := api.NewHandlers(reports, targets)
		srv := api.NewServer(handlers, cfg.Server.Host, cfg.Server.Port)
		go func() {
			logger.Info("status API listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status API failed", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	for {
		rep, err := chk.Run(ctx, targets)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("run interrupted")
				if rep != nil {
					fmt.Print(rep.Render())
				}
				return
			}
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}

		fmt.Print(rep.Render())
		reports.Set(rep)
		logger.Info("run complete", "run_id", rep.ID, "targets", len(rep.Outcomes))

		if *interval <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(*interval):
		}
	}
}
