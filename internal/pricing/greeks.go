package pricing

// 中文说明：
// 在树价格上做有限差分求希腊值；树不可用时回退闭式 BS。
// 非法输入返回 Degenerate=true 的全零结果，调用方据此降级而非崩溃。

import "math"

// Greeks 五个敏感度加三个概率字段。
type Greeks struct {
	Delta     float64 `json:"delta"`
	Gamma     float64 `json:"gamma"`
	Theta     float64 `json:"theta"`
	Vega      float64 `json:"vega"`
	Rho       float64 `json:"rho"`
	ProbITM   float64 `json:"prob_itm"`
	ProbOTM   float64 `json:"prob_otm"`
	ProbTouch float64 `json:"prob_touch"`

	// Degenerate 表示输入无效，所有字段为零值哨兵。
	Degenerate bool `json:"degenerate,omitempty"`
}

// 有限差分扰动量
const (
	bumpSpot  = 0.01
	bumpVol   = 0.001
	bumpRate  = 0.0001
	bumpTheta = 0.01
)

// Engine 定价引擎：携带利率/股息率与树层数。
type Engine struct {
	Rate     float64
	Dividend float64
	Steps    int
}

func NewEngine(rate, dividend float64, steps int) *Engine {
	if steps <= 0 {
		steps = DefaultSteps
	}
	return &Engine{Rate: rate, Dividend: dividend, Steps: steps}
}

func (e *Engine) price(s, k, t, sigma float64, typ OptionType) float64 {
	return AmericanPrice(Params{
		S: s, K: k, T: t, Sigma: sigma,
		R: e.Rate, Q: e.Dividend, Type: typ, Steps: e.Steps,
	})
}

// Greeks 计算给定合约的全部希腊值与概率。
func (e *Engine) Greeks(s, k, t, sigma float64, typ OptionType) Greeks {
	if s <= 0 || k <= 0 || t <= 0 || sigma <= 0 {
		return Greeks{Degenerate: true}
	}

	base := e.price(s, k, t, sigma, typ)
	var g Greeks
	if base > 0 && e.Steps >= 1 {
		g = e.finiteDifference(base, s, k, t, sigma, typ)
	} else {
		// 树路径不可用（深度虚值或风险中性概率越界），走闭式兜底
		g = blackScholesGreeks(s, k, t, sigma, e.Rate, e.Dividend, typ)
	}
	g.ProbITM, g.ProbOTM, g.ProbTouch = Probabilities(s, k, t, sigma, e.Rate, e.Dividend, typ)
	return g
}

func (e *Engine) finiteDifference(base, s, k, t, sigma float64, typ OptionType) Greeks {
	up := e.price(s+bumpSpot, k, t, sigma, typ)
	down := e.price(s-bumpSpot, k, t, sigma, typ)

	dT := math.Min(bumpTheta, t/10)
	if dT >= t {
		dT = t / 2
	}
	shorter := e.price(s, k, t-dT, sigma, typ)

	return Greeks{
		Delta: (up - down) / (2 * bumpSpot),
		Gamma: (up - 2*base + down) / (bumpSpot * bumpSpot),
		Theta: (shorter - base) / dT,
		Vega:  (e.price(s, k, t, sigma+bumpVol, typ) - base) / bumpVol,
		Rho:   (e.priceWithRate(s, k, t, sigma, typ, e.Rate+bumpRate) - base) / bumpRate,
	}
}

func (e *Engine) priceWithRate(s, k, t, sigma float64, typ OptionType, r float64) float64 {
	return AmericanPrice(Params{
		S: s, K: k, T: t, Sigma: sigma,
		R: r, Q: e.Dividend, Type: typ, Steps: e.Steps,
	})
}
