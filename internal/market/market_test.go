package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealizedVol(t *testing.T) {
	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = 100
	}
	assert.Equal(t, 0.0, RealizedVol(flat, 30))

	// 每日 ±1% 交替，年化波动应明显为正
	osc := make([]float64, 50)
	for i := range osc {
		if i%2 == 0 {
			osc[i] = 100
		} else {
			osc[i] = 101
		}
	}
	vol := RealizedVol(osc, 30)
	assert.Greater(t, vol, 0.05)
	assert.False(t, math.IsNaN(vol))

	// 样本不足
	assert.Equal(t, 0.0, RealizedVol([]float64{100, 101}, 30))
	// 非法价格
	assert.Equal(t, 0.0, RealizedVol(append(flat[:48], 0, 100), 30))
}

func TestParseTrendAndVol(t *testing.T) {
	assert.Equal(t, TrendBull, ParseTrend("BULL"))
	assert.Equal(t, TrendBear, ParseTrend(" bear "))
	assert.Equal(t, TrendSideways, ParseTrend("whatever"))

	assert.Equal(t, VolHigh, ParseVolRegime("high"))
	assert.Equal(t, VolExtreme, ParseVolRegime("EXTREME"))
	assert.Equal(t, VolLow, ParseVolRegime("low"))
	assert.Equal(t, VolNormal, ParseVolRegime(""))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "bull", TrendBull.String())
	assert.Equal(t, "sideways", TrendSideways.String())
	assert.Equal(t, "extreme", VolExtreme.String())
}
