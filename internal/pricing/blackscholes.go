package pricing

// 中文说明：
// Black-Scholes 闭式希腊值，作为二叉树路径不可用时的兜底。
// ITM/OTM/触及概率恒走 N(d2) 近似（美式期权下为已知近似，保持原样）。

import "math"

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

func d1d2(s, k, t, sigma, r, q float64) (float64, float64) {
	volT := sigma * math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / volT
	return d1, d1 - volT
}

// blackScholesGreeks 返回标准 BS 希腊值（连续股息率 q）。
func blackScholesGreeks(s, k, t, sigma, r, q float64, typ OptionType) Greeks {
	d1, d2 := d1d2(s, k, t, sigma, r, q)
	pdf := normPDF(d1)
	sqrtT := math.Sqrt(t)
	discQ := math.Exp(-q * t)
	discR := math.Exp(-r * t)

	g := Greeks{
		Gamma: discQ * pdf / (s * sigma * sqrtT),
		Vega:  s * discQ * sqrtT * pdf,
	}
	if typ == Put {
		g.Delta = discQ * (normCDF(d1) - 1)
		g.Theta = -s*discQ*pdf*sigma/(2*sqrtT) + r*k*discR*normCDF(-d2) - q*s*discQ*normCDF(-d1)
		g.Rho = -k * t * discR * normCDF(-d2)
	} else {
		g.Delta = discQ * normCDF(d1)
		g.Theta = -s*discQ*pdf*sigma/(2*sqrtT) - r*k*discR*normCDF(d2) + q*s*discQ*normCDF(d1)
		g.Rho = k * t * discR * normCDF(d2)
	}
	return g
}

// Probabilities 计算 ITM/OTM/触及概率（BS N(d2) 近似）。
func Probabilities(s, k, t, sigma, r, q float64, typ OptionType) (itm, otm, touch float64) {
	if s <= 0 || k <= 0 || t <= 0 || sigma <= 0 {
		return 0, 0, 0
	}
	_, d2 := d1d2(s, k, t, sigma, r, q)
	if typ == Put {
		itm = normCDF(-d2)
	} else {
		itm = normCDF(d2)
	}
	otm = 1 - itm
	touch = math.Min(1, 2*itm)
	return itm, otm, touch
}
