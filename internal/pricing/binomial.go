package pricing

// 中文说明：
// Cox-Ross-Rubinstein 二叉树定价（美式期权）。
// 回溯每个节点取 max(内在价值, 折现期望)，支持提前行权。

import "math"

// OptionType 期权类型
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// DefaultSteps 默认树层数
const DefaultSteps = 100

// Params 单次定价所需的全部输入。
type Params struct {
	S     float64 // 标的价
	K     float64 // 行权价
	T     float64 // 年化剩余期限
	Sigma float64 // 波动率
	R     float64 // 无风险利率
	Q     float64 // 连续股息率
	Type  OptionType
	Steps int
}

func (p Params) valid() bool {
	return p.S > 0 && p.K > 0 && p.T > 0 && p.Sigma > 0 && p.Steps >= 1
}

func intrinsic(s, k float64, typ OptionType) float64 {
	if typ == Put {
		return math.Max(k-s, 0)
	}
	return math.Max(s-k, 0)
}

// AmericanPrice 用 CRR 二叉树对美式期权定价。
// 非法输入（T<=0、sigma<=0、steps<1 或风险中性概率越界）一律返回 0，
// 让批量扫描在坏数据行上退化而不是中断。
func AmericanPrice(p Params) float64 {
	if p.Steps == 0 {
		p.Steps = DefaultSteps
	}
	if !p.valid() {
		return 0
	}

	dt := p.T / float64(p.Steps)
	u := math.Exp(p.Sigma * math.Sqrt(dt))
	d := 1 / u
	if u == d {
		// 单步有效波动为零，树退化为内在价值
		return intrinsic(p.S, p.K, p.Type)
	}
	prob := (math.Exp((p.R-p.Q)*dt) - d) / (u - d)
	if prob <= 0 || prob >= 1 {
		return 0
	}
	disc := math.Exp(-p.R * dt)

	// 终端收益
	values := make([]float64, p.Steps+1)
	for i := 0; i <= p.Steps; i++ {
		sT := p.S * math.Pow(u, float64(p.Steps-i)) * math.Pow(d, float64(i))
		values[i] = intrinsic(sT, p.K, p.Type)
	}

	// 逐层回溯，每个节点比较提前行权
	for step := p.Steps - 1; step >= 0; step-- {
		for i := 0; i <= step; i++ {
			cont := disc * (prob*values[i] + (1-prob)*values[i+1])
			sNode := p.S * math.Pow(u, float64(step-i)) * math.Pow(d, float64(i))
			values[i] = math.Max(cont, intrinsic(sNode, p.K, p.Type))
		}
	}
	return values[0]
}
