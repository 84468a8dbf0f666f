package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PremiumSentinel/internal/api"
	"PremiumSentinel/internal/notifier"
	"PremiumSentinel/internal/scheduler"
)

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP API、定时日报和 Telegram 命令",
	Long:  `启动 HTTP API 服务。配置了 Telegram 时同时启动每日排名推送和命令轮询。Ctrl+C 退出。`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "send the daily report immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Msg("PremiumSentinel starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := api.NewServer(cfg.Server.Addr, api.NewHandler(a.service, a.creds), prometheus.DefaultGatherer)
	srv.Start()

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
		sched := scheduler.NewScheduler(ctx, a.service, tn)
		if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")

		if runOnStart {
			log.Info().Msg("run-on-start enabled, sending daily report now")
			go sched.RunNow()
		}
	} else {
		log.Info().Msg("telegram not configured, scheduler disabled")
	}

	log.Info().Str("addr", cfg.Server.Addr).Msg("PremiumSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("PremiumSentinel stopped")
	return nil
}
