package game

import (
	"math"

	"golang.org/x/exp/rand"
)

const stockPriceFloor = 20

// PriceChange 单支股票一次行情变动（仅变动幅度超过 10% 时上报）
type PriceChange struct {
	StockID   string
	OldPrice  int
	NewPrice  int
	Direction string
	Percent   int
}

// NewStocks 按目录生成开局股票，价格在基准价 ±20 内随机
func NewStocks(rng *rand.Rand) []*Stock {
	stocks := make([]*Stock, 0, len(StockDefs))
	for _, def := range StockDefs {
		s := def
		s.Price = def.Price + rng.Intn(41) - 20
		stocks = append(stocks, &s)
	}
	return stocks
}

// TickMarket 执行一次全市场行情更新（每完成一个回合调用一次），
// 返回值为值得播报的大幅变动。趋势为 [-2,2] 内均值回归的随机游走。
func TickMarket(rng *rand.Rand, stocks []*Stock) []PriceChange {
	var changes []PriceChange
	for _, stock := range stocks {
		// 基础波动 -10% ~ +10%，叠加趋势影响
		change := (rng.Float64() - 0.5) * 0.2
		change += float64(stock.Trend) * 0.03

		if rng.Float64() < 0.05 {
			// 小概率暴涨或暴跌 20%，并把趋势推到极值
			if rng.Float64() < 0.5 {
				change = -0.2
				stock.Trend = -2
			} else {
				change = 0.2
				stock.Trend = 2
			}
		} else {
			step := rng.Intn(3) - 1
			// 趋势逐渐向 0 回归
			if stock.Trend > 0 && rng.Float64() < 0.25 {
				step--
			} else if stock.Trend < 0 && rng.Float64() < 0.25 {
				step++
			}
			stock.Trend = clampTrend(stock.Trend + step)
		}

		oldPrice := stock.Price
		newPrice := int(math.Round(float64(stock.Price) * (1 + change)))
		if newPrice < stockPriceFloor {
			newPrice = stockPriceFloor
		}
		stock.Price = newPrice

		if abs(newPrice-oldPrice)*10 > oldPrice {
			direction := "上涨"
			if newPrice < oldPrice {
				direction = "下跌"
			}
			changes = append(changes, PriceChange{
				StockID:   stock.ID,
				OldPrice:  oldPrice,
				NewPrice:  newPrice,
				Direction: direction,
				Percent:   abs(newPrice-oldPrice) * 100 / oldPrice,
			})
		}
	}
	return changes
}

func clampTrend(t int) int {
	if t > 2 {
		return 2
	}
	if t < -2 {
		return -2
	}
	return t
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
