package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"PremiumSentinel/internal/fund"
	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/notifier"
	"PremiumSentinel/internal/strategy"
)

// sendRetries is the retry budget for scheduled reports.
const sendRetries = 3

// Reporter produces the ranking and detail views.
type Reporter interface {
	Ranking(ctx context.Context, key strategy.SortKey, dir strategy.SortDir) model.Ranking
	Detail(ctx context.Context, ticker string, days int) (model.FundDetail, error)
}

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages cron tasks and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Reporter Reporter
	Notifier Sender
	Ctx      context.Context
	now      func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, reporter Reporter, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Reporter: reporter,
		Notifier: sender,
		Ctx:      ctx,
		now:      time.Now,
	}
}

// RegisterAll registers the daily ranking report.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyReport); err != nil {
		return fmt.Errorf("register daily report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the daily report immediately.
func (s *Scheduler) RunNow() {
	s.dailyReport()
}

func (s *Scheduler) dailyReport() {
	log.Info().Msg("running daily ranking report")
	ranking := s.Reporter.Ranking(s.Ctx, strategy.SortByScore, strategy.SortDesc)
	s.trySend(notifier.FormatRankingReport(ranking, s.now()))
}

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/rank@SomeBot" in group chats
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/rank", "排名":
		ranking := s.Reporter.Ranking(ctx, strategy.SortByScore, strategy.SortDesc)
		return notifier.FormatRankingReport(ranking, s.now())
	case "/fund", "详情":
		if len(fields) < 2 {
			return "用法: /fund &lt;代码&gt; [天数]"
		}
		days := strategy.DefaultTimeRange
		if len(fields) > 2 {
			n, err := strconv.Atoi(fields[2])
			if err != nil || !strategy.ValidTimeRange(n) {
				return "天数仅支持 30/90/180/365"
			}
			days = n
		}
		detail, err := s.Reporter.Detail(ctx, fields[1], days)
		if errors.Is(err, fund.ErrUnknownFund) {
			return fmt.Sprintf("未知基金代码: %s", html.EscapeString(fields[1]))
		}
		if err != nil {
			log.Error().Err(err).Str("ticker", fields[1]).Msg("detail command")
			return "❌ 查询失败，请稍后再试"
		}
		return notifier.FormatFundDetail(detail)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
