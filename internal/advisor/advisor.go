package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"PremiumSentinel/internal/credential"
	"PremiumSentinel/internal/metrics"
	"PremiumSentinel/internal/model"
)

// DefaultModel is the language model used for analysis.
const DefaultModel = "gemini-2.5-flash"

// RecentPoints is how many trailing points go into the prompt.
const RecentPoints = 5

// EmptyAnalysis is returned when the model produced no text.
const EmptyAnalysis = "无法进行分析。"

var (
	// ErrMissingCredential means no API key is configured; callers should prompt for one.
	ErrMissingCredential = errors.New("missing advisor credential")
	// ErrAnalysisFailed is every other failure. Its message is safe to show to users.
	ErrAnalysisFailed = errors.New("分析服务暂时不可用，请检查网络或 Key 是否有效。")
	// ErrNoData means there are no points to analyse; the model is not called.
	ErrNoData = errors.New("暂无数据，无法分析。")
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFactory builds a Generator for an API key.
type GeneratorFactory func(ctx context.Context, apiKey string) (Generator, error)

// CredentialSource supplies the API key.
type CredentialSource interface {
	Get() (string, error)
}

// Advisor asks a language model to comment on a fund's recent premium trend.
type Advisor struct {
	creds   CredentialSource
	newGen  GeneratorFactory
	model   string
	timeout time.Duration
	metrics *metrics.Recorder
}

// Option configures an Advisor.
type Option func(*Advisor)

func WithModel(name string) Option {
	return func(a *Advisor) {
		if name != "" {
			a.model = name
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) { a.timeout = d }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(a *Advisor) { a.metrics = m }
}

// WithGeneratorFactory replaces the Gemini client, mainly for tests.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(a *Advisor) { a.newGen = f }
}

// New creates an Advisor reading its key from creds.
func New(creds CredentialSource, opts ...Option) *Advisor {
	a := &Advisor{
		creds:   creds,
		newGen:  NewGeminiGenerator,
		model:   DefaultModel,
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns Markdown commentary on the last RecentPoints points.
// It fails with ErrNoData, ErrMissingCredential or ErrAnalysisFailed only.
func (a *Advisor) Analyze(ctx context.Context, ticker string, points []model.EnrichedPoint, method model.CalculationMethod) (string, error) {
	text, err := a.analyze(ctx, ticker, points, method)
	a.metrics.RecordAdvisor(err)
	return text, err
}

func (a *Advisor) analyze(ctx context.Context, ticker string, points []model.EnrichedPoint, method model.CalculationMethod) (string, error) {
	if len(points) == 0 {
		return "", ErrNoData
	}
	key, err := a.creds.Get()
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return "", ErrMissingCredential
		}
		log.Error().Err(err).Str("ticker", ticker).Msg("read advisor credential")
		return "", ErrAnalysisFailed
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	gen, err := a.newGen(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("create advisor client")
		return "", ErrAnalysisFailed
	}

	start := time.Now()
	text, err := gen.Generate(ctx, a.model, BuildPrompt(ticker, points, method))
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Str("model", a.model).Msg("advisor request failed")
		return "", ErrAnalysisFailed
	}
	log.Debug().Str("ticker", ticker).Dur("took", time.Since(start)).Msg("advisor responded")

	if strings.TrimSpace(text) == "" {
		return EmptyAnalysis, nil
	}
	return text, nil
}

// BuildPrompt renders the analysis request for the trailing points.
func BuildPrompt(ticker string, points []model.EnrichedPoint, method model.CalculationMethod) string {
	if len(points) > RecentPoints {
		points = points[len(points)-RecentPoints:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "请分析代码为 %s 的ETF近期的溢价率走势与技术指标。\n", ticker)
	fmt.Fprintf(&b, "参考价值口径: %s\n", methodLabel(method))
	b.WriteString("数据:\n")
	for _, p := range points {
		fmt.Fprintf(&b, "日期: %s, 价格: %g, 净值: %g, 溢价率: %.2f%%, RSI: %.2f, 波动率: %.2f%%\n",
			p.Date.Format(model.DateLayout), p.ClosePrice, p.ReferenceValue, p.PremiumRate, p.RSI, p.Volatility)
	}
	b.WriteString("\n请用中文给出 3 条简短要点，分别覆盖溢价风险、技术面 (RSI/波动率) 状态和操作建议。\n")
	b.WriteString("只依据上述数字做计算和推理，不要检索网络。使用 Markdown 格式。\n")
	return b.String()
}

func methodLabel(m model.CalculationMethod) string {
	switch m {
	case model.MethodRealtimeIOPV:
		return "实时 IOPV 估值"
	default:
		return "官方净值 (T-1)"
	}
}
