package scoring

// 中文说明：
// 从日线蜡烛构建技术面输入：RSI / MACD / EMA 趋势排列 / 支撑阻力 / 相对强弱。
// 数据不足的字段留零值，由评分端退化处理。

import (
	"math"

	"optix/internal/market"

	talib "github.com/markcheno/go-talib"
)

const (
	rsiPeriod     = 14
	macdFast      = 12
	macdSlow      = 26
	macdSignal    = 9
	emaFast       = 10
	emaMid        = 20
	emaSlow       = 50
	srWindow      = 20
	relStrWindow  = 20
	volumeWindow  = 10
	minCandleBars = macdSlow + macdSignal
)

// TechnicalsFromCandles 计算 TechnicalsInput；bench 为基准指数蜡烛（可为空）。
func TechnicalsFromCandles(candles, bench []market.Candle) TechnicalsInput {
	var out TechnicalsInput
	if len(candles) < minCandleBars {
		return out
	}
	closes := market.Closes(candles)

	rsiSeries := talib.Rsi(closes, rsiPeriod)
	out.RSI = lastValue(rsiSeries)

	_, _, hist := talib.Macd(closes, macdFast, macdSlow, macdSignal)
	out.MACDSignal = lastValue(hist)

	fast := lastValue(talib.Ema(closes, emaFast))
	mid := lastValue(talib.Ema(closes, emaMid))
	slow := lastValue(talib.Ema(closes, emaSlow))
	out.TrendDirection, out.TrendStrength = classifyTrend(fast, mid, slow)

	out.Support, out.Resistance = supportResistance(candles, srWindow)
	out.RelativeStrength = relativeStrength(closes, market.Closes(bench), relStrWindow)
	out.VolumeProfile = volumeProfile(candles, volumeWindow)
	return out
}

func lastValue(series []float64) float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) && series[i] != 0 {
			return series[i]
		}
	}
	return 0
}

// classifyTrend 根据 EMA 排列给出方向与 0~1 强度。
func classifyTrend(fast, mid, slow float64) (string, float64) {
	if fast == 0 || mid == 0 || slow == 0 {
		return "unknown", 0
	}
	spread := math.Abs(fast-slow) / slow
	strength := math.Min(1, spread*20) // 5% 的快慢差即满强度
	switch {
	case fast > mid && mid > slow:
		return "up", strength
	case fast < mid && mid < slow:
		return "down", strength
	default:
		return "mixed", strength / 2
	}
}

func supportResistance(candles []market.Candle, window int) (float64, float64) {
	n := len(candles)
	if n == 0 {
		return 0, 0
	}
	if window > n {
		window = n
	}
	lo := math.MaxFloat64
	hi := 0.0
	for _, c := range candles[n-window:] {
		if c.Low > 0 && c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}
	if lo == math.MaxFloat64 {
		lo = 0
	}
	return lo, hi
}

// relativeStrength 区间收益差（标的 - 基准），无基准时返回标的自身收益。
func relativeStrength(closes, bench []float64, window int) float64 {
	own := windowReturn(closes, window)
	if len(bench) == 0 {
		return own
	}
	return own - windowReturn(bench, window)
}

func windowReturn(closes []float64, window int) float64 {
	n := len(closes)
	if n < 2 {
		return 0
	}
	if window >= n {
		window = n - 1
	}
	start := closes[n-1-window]
	if start <= 0 {
		return 0
	}
	return (closes[n-1] - start) / start
}

// volumeProfile 最近 window 根的均量 / 全样本均量。
func volumeProfile(candles []market.Candle, window int) float64 {
	n := len(candles)
	if n == 0 || window <= 0 || window > n {
		return 0
	}
	total := 0.0
	for _, c := range candles {
		total += c.Volume
	}
	if total == 0 {
		return 0
	}
	recent := 0.0
	for _, c := range candles[n-window:] {
		recent += c.Volume
	}
	return (recent / float64(window)) / (total / float64(n))
}
