package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ReturnLens/internal/model"
	"ReturnLens/internal/notifier"
	"ReturnLens/internal/plan"
	"ReturnLens/internal/strategy"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const sendRetries = 3

// Analyzer compares strategies for one or many symbols.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, w strategy.Window, p *plan.Plan) (*model.Comparison, error)
	AnalyzeAll(ctx context.Context, symbols []string, w strategy.Window, p *plan.Plan) ([]*model.Comparison, map[string]error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist digest on a cron schedule and answers chat
// commands.
type Scheduler struct {
	Cron      *cron.Cron
	Watchlist []string
	Plan      *plan.Plan
	Currency  string

	analyzer Analyzer
	sender   Sender
	logger   zerolog.Logger
	ctx      context.Context
	now      func() time.Time
}

// NewScheduler creates a new Scheduler. The cron parser accepts a seconds field.
func NewScheduler(analyzer Analyzer, sender Sender, watchlist []string, p *plan.Plan, currency string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Watchlist: watchlist,
		Plan:      p,
		Currency:  currency,
		analyzer:  analyzer,
		sender:    sender,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		ctx:       context.Background(),
		now:       time.Now,
	}
}

// Register adds the digest task.
func (s *Scheduler) Register(digestCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler. Tasks run with ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.Cron.Start()
	s.logger.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// Digest compares every watchlist symbol over its full history and formats
// the result.
func (s *Scheduler) Digest(ctx context.Context) string {
	cmps, errs := s.analyzer.AnalyzeAll(ctx, s.Watchlist, strategy.Window{}, s.Plan)
	for sym, err := range errs {
		s.logger.Warn().Err(err).Str("symbol", sym).Msg("digest comparison failed")
	}
	return notifier.FormatDigest(cmps, errs, s.now())
}

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	start := s.now()
	s.logger.Info().Int("symbols", len(s.Watchlist)).Msg("running digest task")
	s.trySend(s.Digest(s.ctx))
	s.logger.Info().Dur("took", s.now().Sub(start)).Msg("digest task done")
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage()
	}
	// Group chats suffix commands with the bot name, as in /compare@bot.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/compare":
		return s.compare(ctx, fields[1:])
	case "/symbols":
		return notifier.FormatSymbols(s.Watchlist)
	case "/digest":
		return s.Digest(ctx)
	default:
		return usage()
	}
}

func (s *Scheduler) compare(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /compare SYMBOL [horizon_months] [frequency_months]"
	}
	p, err := s.planFor(args[1:])
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	symbol := strings.ToUpper(args[0])
	cmp, err := s.analyzer.Analyze(ctx, symbol, strategy.Window{}, p)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("compare command failed")
		return fmt.Sprintf("❌ %s: %v", symbol, err)
	}
	return notifier.FormatComparison(cmp, s.Currency)
}

// planFor overrides the configured horizon and frequency with the optional
// command arguments.
func (s *Scheduler) planFor(args []string) (*plan.Plan, error) {
	p := *s.Plan
	targets := []*int{&p.HorizonMonths, &p.FrequencyMonths}
	for i, a := range args {
		if i >= len(targets) {
			return nil, fmt.Errorf("too many arguments")
		}
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("not a number of months: %q", a)
		}
		*targets[i] = n
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Scheduler) trySend(text string) {
	if err := s.sender.SendWithRetry(s.ctx, text, sendRetries); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}

func usage() string {
	return "Available commands:\n" +
		"• /compare SYMBOL [horizon_months] [frequency_months]\n" +
		"• /symbols\n" +
		"• /digest"
}
