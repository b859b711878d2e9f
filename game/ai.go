package game

import "sort"

// AI 决策函数：输入当前玩家与盘面，输出是否执行。
// 全部为无状态纯函数，按玩家性格分档。

// ShouldBuy 是否买下无主地产
func ShouldBuy(player *PlayerState, tileIndex int, properties []*PropertyState) bool {
	tile := TileDefs[tileIndex]
	if tile.Type != TileProperty {
		return false
	}
	if tile.Price > player.Money {
		return false
	}

	// 统计同组已持有数量
	ownedInGroup := 0
	for _, i := range GroupTiles(tile.ColorGroup) {
		if properties[i].OwnerIndex == player.Index {
			ownedInGroup++
		}
	}

	switch player.Personality {
	case Aggressive:
		// 买得起就买，保留至少 100 备用金
		return player.Money-tile.Price >= 100
	case Conservative:
		// 手头要有 3 倍价格，或已持有同组地产
		return player.Money >= tile.Price*3 || ownedInGroup > 0
	default:
		return player.Money*2 >= tile.Price*3 || ownedInGroup > 0
	}
}

// ShouldBuild 是否在自有地产上加盖（要求集齐颜色组）
func ShouldBuild(player *PlayerState, tileIndex int, properties []*PropertyState) bool {
	tile := TileDefs[tileIndex]
	if tile.Type != TileProperty {
		return false
	}
	prop := properties[tileIndex]
	if prop.OwnerIndex != player.Index || prop.Buildings >= 5 {
		return false
	}
	if tile.BuildCost > player.Money {
		return false
	}
	if !OwnsAllInGroup(player.Index, tileIndex, properties) {
		return false
	}

	switch player.Personality {
	case Aggressive:
		return player.Money >= tile.BuildCost*2
	case Conservative:
		return player.Money >= tile.BuildCost*4
	default:
		return player.Money >= tile.BuildCost*3
	}
}

// PickBuildTarget 在可建地产中挑一块，优先建筑最少的（拉平持仓），无可建返回 -1
func PickBuildTarget(player *PlayerState, properties []*PropertyState) int {
	var candidates []int
	for i := 0; i < TotalTiles; i++ {
		if ShouldBuild(player, i, properties) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	sort.Slice(candidates, func(a, b int) bool {
		return properties[candidates[a]].Buildings < properties[candidates[b]].Buildings
	})
	return candidates[0]
}

// ShouldUseJailCard 有出狱卡就用，各性格一致
func ShouldUseJailCard(player *PlayerState) bool {
	return true
}

// ShouldUseImmunityCard 对手的"危险地产"（当前等级租金超过 100）达到阈值时启用免租
func ShouldUseImmunityCard(player *PlayerState, state *GameState) bool {
	dangerous := 0
	for i, prop := range state.Properties {
		if prop.OwnerIndex < 0 || prop.OwnerIndex == player.Index {
			continue
		}
		if TileDefs[i].Rent[prop.Buildings] > 100 {
			dangerous++
		}
	}

	switch player.Personality {
	case Aggressive:
		return dangerous >= 5
	case Conservative:
		return dangerous >= 3
	default:
		return dangerous >= 4
	}
}

// ShouldBuyStock 是否买入一支股票
func ShouldBuyStock(player *PlayerState, stock *Stock) bool {
	switch player.Personality {
	case Aggressive:
		return stock.Trend > 0 || stock.Price < 100
	case Conservative:
		return stock.Trend >= 1 && player.Money > 1500
	default:
		return stock.Trend > 0 || (stock.Trend == 0 && stock.Price < 120)
	}
}

// ShouldSellStock 是否卖出持仓
func ShouldSellStock(player *PlayerState, stock *Stock) bool {
	switch player.Personality {
	case Aggressive:
		return stock.Trend <= -2
	case Conservative:
		return stock.Trend < 0 || stock.Price > 200
	default:
		return stock.Trend <= -1
	}
}
