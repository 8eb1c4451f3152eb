package market

import "math"

type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Closes 提取收盘价序列。
func Closes(candles []Candle) []float64 {
	out := make([]float64, 0, len(candles))
	for _, c := range candles {
		out = append(out, c.Close)
	}
	return out
}

// RealizedVol 对数收益的年化标准差（日线输入，252 交易日）。
// 样本不足返回 0。
func RealizedVol(closes []float64, window int) float64 {
	n := len(closes)
	if window <= 1 || n <= window {
		return 0
	}
	rets := make([]float64, 0, window)
	for i := n - window; i < n; i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			return 0
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	variance := 0.0
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets) - 1)
	return math.Sqrt(variance) * math.Sqrt(252)
}
