package game_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"go-richman/game"
)

func TestNewStocksStayNearBasePrice(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	stocks := game.NewStocks(rng)

	if len(stocks) != len(game.StockDefs) {
		t.Fatalf("股票数 = %d, 期望 %d", len(stocks), len(game.StockDefs))
	}
	for i, s := range stocks {
		base := game.StockDefs[i].Price
		if s.Price < base-20 || s.Price > base+20 {
			t.Errorf("%s 开盘价 %d 偏离基准价 %d 超过 20", s.ID, s.Price, base)
		}
		if s.Trend != 0 {
			t.Errorf("%s 开盘趋势应为 0", s.ID)
		}
	}
}

func TestTickMarketRespectsFloorAndTrendBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	stocks := game.NewStocks(rng)
	// 压低价格逼近下限
	for _, s := range stocks {
		s.Price = 21
		s.Trend = -2
	}

	for i := 0; i < 500; i++ {
		game.TickMarket(rng, stocks)
		for _, s := range stocks {
			if s.Price < 20 {
				t.Fatalf("%s 价格 %d 跌破下限", s.ID, s.Price)
			}
			if s.Trend < -2 || s.Trend > 2 {
				t.Fatalf("%s 趋势 %d 越界", s.ID, s.Trend)
			}
		}
	}
}

func TestTickMarketReportsOnlyBigMoves(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	stocks := game.NewStocks(rng)

	for i := 0; i < 200; i++ {
		for _, change := range game.TickMarket(rng, stocks) {
			if change.OldPrice <= 0 {
				t.Fatalf("变动记录缺少原价: %+v", change)
			}
			moved := change.NewPrice - change.OldPrice
			if moved < 0 {
				moved = -moved
			}
			if moved*10 <= change.OldPrice {
				t.Fatalf("不足 10%% 的变动不应播报: %+v", change)
			}
			if change.Direction != "上涨" && change.Direction != "下跌" {
				t.Fatalf("方向字段非法: %+v", change)
			}
		}
	}
}
