package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ReturnLens/internal/notifier"
	"ReturnLens/internal/scheduler"
	"ReturnLens/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, the digest scheduler and Telegram command polling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithContext(ctx)

			cfg := a.cfg
			if cfg.TelegramEnabled() {
				tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy, logger)
				sched := scheduler.NewScheduler(a.analyzer, tn, cfg.Watchlist, a.plan, cfg.Investment.Currency, logger)
				if err := sched.Register(cfg.Schedule.DigestCron); err != nil {
					return fmt.Errorf("register cron tasks: %w", err)
				}
				sched.Start(ctx)
				defer sched.Stop()

				go tn.StartPolling(ctx, sched.HandleCommand)
				logger.Info().Msg("telegram polling started")

				if runOnStart || os.Getenv("RUN_ON_START") == "true" {
					logger.Info().Msg("running digest on start")
					go sched.RunDigestNow()
				}
			} else {
				logger.Info().Msg("telegram not configured, digest and commands disabled")
			}

			api := server.NewWebAPI(server.Config{
				Addr:            cfg.Server.Addr,
				ShutdownTimeout: 10 * time.Second,
				Dependencies: server.Dependencies{
					Analyzer:  a.analyzer,
					Watchlist: cfg.Watchlist,
					Plan:      a.plan,
					Currency:  cfg.Investment.Currency,
					Logger:    logger,
				},
			})
			logger.Info().Str("plan", a.plan.String()).Strs("watchlist", cfg.Watchlist).Msg("ReturnLens is running")
			return api.Start(ctx)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Send a digest immediately after startup")
	return cmd
}
