package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ReturnLens/internal/calculator"
	"ReturnLens/internal/model"
	"ReturnLens/internal/plan"
	"ReturnLens/internal/strategy"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, symbol string, w strategy.Window, p *plan.Plan) (*model.Comparison, error) {
	args := m.Called(ctx, symbol, w, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comparison), args.Error(1)
}

func (m *mockAnalyzer) AnalyzeAll(ctx context.Context, symbols []string, w strategy.Window, p *plan.Plan) ([]*model.Comparison, map[string]error) {
	args := m.Called(ctx, symbols, w, p)
	return args.Get(0).([]*model.Comparison), args.Get(1).(map[string]error)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return m.Called(ctx, text, maxRetries).Error(0)
}

func newTestScheduler(t *testing.T, a *mockAnalyzer, s *mockSender) *Scheduler {
	t.Helper()
	p, err := plan.New(1000, 12, 1)
	require.NoError(t, err)
	sched := NewScheduler(a, s, []string{"AAPL", "MSFT"}, p, "EUR", zerolog.Nop())
	sched.now = func() time.Time { return time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC) }
	return sched
}

func comparison(symbol string, h, f int) *model.Comparison {
	return &model.Comparison{
		Symbol: symbol, HorizonMonths: h, FrequencyMonths: f,
		LumpSumSummary: model.Summary{Count: 10, Mean: 0.1},
		DACSummary:     model.Summary{Count: 10, Mean: 0.05},
	}
}

func TestHandleCommand_Compare(t *testing.T) {
	a := new(mockAnalyzer)
	sched := newTestScheduler(t, a, new(mockSender))

	a.On("Analyze", mock.Anything, "TSLA", strategy.Window{}, mock.MatchedBy(func(p *plan.Plan) bool {
		return p.HorizonMonths == 24 && p.FrequencyMonths == 3 && p.Amount.Equal(sched.Plan.Amount)
	})).Return(comparison("TSLA", 24, 3), nil)

	reply := sched.HandleCommand(context.Background(), "/compare tsla 24 3")
	assert.Contains(t, reply, "<b>TSLA</b>")
	assert.Contains(t, reply, "Horizon 24m, buying every 3m")
	assert.Equal(t, 12, sched.Plan.HorizonMonths, "configured plan must not change")
	a.AssertExpectations(t)
}

func TestHandleCommand_CompareErrors(t *testing.T) {
	a := new(mockAnalyzer)
	sched := newTestScheduler(t, a, new(mockSender))
	a.On("Analyze", mock.Anything, "NOPE", mock.Anything, mock.Anything).
		Return(nil, errors.New("no price data"))

	tests := []struct {
		command string
		want    string
	}{
		{"/compare", "Usage: /compare"},
		{"/compare AAPL twelve", "not a number"},
		{"/compare AAPL 12 1 1", "too many arguments"},
		{"/compare AAPL 3 6", calculator.ErrFrequencyExceedsHorizon.Error()},
		{"/compare NOPE", "NOPE: no price data"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Contains(t, sched.HandleCommand(context.Background(), tt.command), tt.want)
		})
	}
}

func TestHandleCommand_SymbolsAndHelp(t *testing.T) {
	sched := newTestScheduler(t, new(mockAnalyzer), new(mockSender))

	assert.Contains(t, sched.HandleCommand(context.Background(), "/symbols@returnlens_bot"), "AAPL, MSFT")
	assert.Contains(t, sched.HandleCommand(context.Background(), "hello"), "Available commands")
	assert.Contains(t, sched.HandleCommand(context.Background(), "  "), "Available commands")
}

func TestDigestTask_SendsDigest(t *testing.T) {
	a := new(mockAnalyzer)
	s := new(mockSender)
	sched := newTestScheduler(t, a, s)

	a.On("AnalyzeAll", mock.Anything, []string{"AAPL", "MSFT"}, strategy.Window{}, sched.Plan).
		Return([]*model.Comparison{comparison("AAPL", 12, 1), nil}, map[string]error{"MSFT": errors.New("timeout")})
	s.On("SendWithRetry", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "2024-06-03") &&
			strings.Contains(text, "<b>AAPL</b>") &&
			strings.Contains(text, "MSFT: timeout")
	}), sendRetries).Return(nil)

	sched.digestTask()
	a.AssertExpectations(t)
	s.AssertExpectations(t)
}

func TestRegister_InvalidCron(t *testing.T) {
	sched := newTestScheduler(t, new(mockAnalyzer), new(mockSender))
	require.Error(t, sched.Register("every monday"))
	require.NoError(t, sched.Register("0 0 8 * * 1"))
	assert.Len(t, sched.Cron.Entries(), 1)
}
