package chain

// 中文说明：
// 期权链分析器：对整条链逐合约定价 + 希腊值 + 量化评分。
// 合约之间无共享可变状态，errgroup 限并发扇出，结果按输入顺序返回。
// 坏行降级为低分结果并带 issue 说明，整批不因单行中断。

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"optix/internal/logger"
	"optix/internal/market"
	"optix/internal/option"
	"optix/internal/pricing"
	"optix/internal/scoring"
)

const realizedVolWindow = 30

// Request 一次链分析的全部输入。技术面与基本面是标的级数据，
// 所有合约共享；波动率元数据由外部 IV 历史统计给出。
type Request struct {
	Contracts    []option.Contract
	Candles      []market.Candle
	BenchCandles []market.Candle

	Fundamentals scoring.FundamentalsInput

	IVPercentile  float64
	Skew          float64
	TermStructure float64
	VolRegime     string
}

// ContractResult 单合约分析结果。
type ContractResult struct {
	Contract option.Contract `json:"contract"`
	Score    scoring.Score   `json:"score"`
	Issues   []string        `json:"issues,omitempty"`
}

// Analyzer 组合定价引擎与量化评分器。
type Analyzer struct {
	pricer      *pricing.Engine
	scorer      *scoring.Scorer
	concurrency int
	now         func() time.Time
}

// NewAnalyzer 构造分析器；concurrency <= 0 时取 CPU 数。
func NewAnalyzer(pricer *pricing.Engine, scorer *scoring.Scorer, concurrency int) *Analyzer {
	if pricer == nil {
		pricer = pricing.NewEngine(0.05, 0, pricing.DefaultSteps)
	}
	if scorer == nil {
		scorer = scoring.NewDefaultScorer()
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Analyzer{pricer: pricer, scorer: scorer, concurrency: concurrency, now: time.Now}
}

// Analyze 分析整条链。仅在 ctx 取消时返回错误。
func (a *Analyzer) Analyze(ctx context.Context, req Request) ([]ContractResult, error) {
	if len(req.Contracts) == 0 {
		return nil, nil
	}
	started := time.Now()

	// 标的级输入整链算一次
	closes := market.Closes(req.Candles)
	realized := market.RealizedVol(closes, realizedVolWindow)
	technicals := scoring.TechnicalsFromCandles(req.Candles, req.BenchCandles)

	results := make([]ContractResult, len(req.Contracts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range req.Contracts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.analyzeContract(req.Contracts[i], req, realized, technicals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debugf("链分析完成: %d 合约耗时 %s", len(results), time.Since(started))
	return results, nil
}

func (a *Analyzer) analyzeContract(c option.Contract, req Request, realized float64, technicals scoring.TechnicalsInput) ContractResult {
	var issues []string
	for _, err := range option.Normalize(&c, a.now()) {
		issues = append(issues, err.Error())
	}

	c.Greeks = a.pricer.Greeks(c.Underlying, c.Strike, c.YearsToExpiration(), c.ImpliedVol, c.Type)
	if c.Greeks.Degenerate {
		issues = append(issues, "定价输入退化，希腊值为零")
	}

	score := a.scorer.Score(
		scoring.GreeksInput{
			Delta:            c.Greeks.Delta,
			Gamma:            c.Greeks.Gamma,
			Theta:            c.Greeks.Theta,
			Vega:             c.Greeks.Vega,
			Rho:              c.Greeks.Rho,
			OptionType:       c.Type,
			Strike:           c.Strike,
			DaysToExpiration: c.DaysToExpiration,
		},
		scoring.VolatilityInput{
			ImpliedVol:    c.ImpliedVol,
			RealizedVol:   realized,
			IVPercentile:  req.IVPercentile,
			Skew:          req.Skew,
			TermStructure: req.TermStructure,
			Regime:        req.VolRegime,
		},
		req.Fundamentals,
		technicals,
	)
	return ContractResult{Contract: c, Score: score, Issues: issues}
}
