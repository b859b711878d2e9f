package game

// 棋盘与金钱常量
const (
	TotalTiles    = 32
	JailTileIndex = 8

	StartingMoney = 2000
	GoSalary      = 200
	TaxAmount     = 150
)

// CharacterDefs 可选角色列表（颜色与前端渲染约定一致）
var CharacterDefs = []CharacterDef{
	{ID: "sunxiaomei", Name: "孙小美", Color: "#e74c3c"},
	{ID: "atube", Name: "阿土伯", Color: "#f39c12"},
	{ID: "qianfuren", Name: "钱夫人", Color: "#2ecc71"},
	{ID: "shahongbasi", Name: "沙隆巴斯", Color: "#3498db"},
}

// TileDefs 32 格棋盘布局：每边 8 格，四角为特殊格
// rent 数组依次为 [无建筑, 1级, 2级, 3级, 4级, 酒店]
var TileDefs = []TileDef{
	// 下边 (0-7)
	{Index: 0, Type: TileGo, Name: "起点", ColorGroup: -1},
	{Index: 1, Type: TileProperty, Name: "台北", Price: 60, Rent: [6]int{4, 20, 60, 180, 320, 450}, BuildCost: 50, ColorGroup: 0},
	{Index: 2, Type: TileChance, Name: "机会", ColorGroup: -1},
	{Index: 3, Type: TileProperty, Name: "高雄", Price: 60, Rent: [6]int{4, 20, 60, 180, 320, 450}, BuildCost: 50, ColorGroup: 0},
	{Index: 4, Type: TileTax, Name: "所得税", ColorGroup: -1},
	{Index: 5, Type: TileProperty, Name: "广州", Price: 100, Rent: [6]int{6, 30, 90, 270, 400, 550}, BuildCost: 50, ColorGroup: 1},
	{Index: 6, Type: TileProperty, Name: "深圳", Price: 100, Rent: [6]int{6, 30, 90, 270, 400, 550}, BuildCost: 50, ColorGroup: 1},
	{Index: 7, Type: TileProperty, Name: "珠海", Price: 120, Rent: [6]int{8, 40, 100, 300, 450, 600}, BuildCost: 50, ColorGroup: 1},
	// 右边 (8-15)
	{Index: 8, Type: TileJail, Name: "监狱", ColorGroup: -1},
	{Index: 9, Type: TileProperty, Name: "成都", Price: 140, Rent: [6]int{10, 50, 150, 450, 625, 750}, BuildCost: 100, ColorGroup: 2},
	{Index: 10, Type: TileProperty, Name: "重庆", Price: 140, Rent: [6]int{10, 50, 150, 450, 625, 750}, BuildCost: 100, ColorGroup: 2},
	{Index: 11, Type: TileChance, Name: "机会", ColorGroup: -1},
	{Index: 12, Type: TileProperty, Name: "武汉", Price: 160, Rent: [6]int{12, 60, 180, 500, 700, 900}, BuildCost: 100, ColorGroup: 2},
	{Index: 13, Type: TileProperty, Name: "长沙", Price: 180, Rent: [6]int{14, 70, 200, 550, 750, 950}, BuildCost: 100, ColorGroup: 3},
	{Index: 14, Type: TileProperty, Name: "南京", Price: 180, Rent: [6]int{14, 70, 200, 550, 750, 950}, BuildCost: 100, ColorGroup: 3},
	{Index: 15, Type: TileProperty, Name: "杭州", Price: 200, Rent: [6]int{16, 80, 220, 600, 800, 1000}, BuildCost: 100, ColorGroup: 3},
	// 上边 (16-23)
	{Index: 16, Type: TileFreeParking, Name: "免费停车", ColorGroup: -1},
	{Index: 17, Type: TileProperty, Name: "苏州", Price: 220, Rent: [6]int{18, 90, 250, 700, 875, 1050}, BuildCost: 150, ColorGroup: 4},
	{Index: 18, Type: TileProperty, Name: "无锡", Price: 220, Rent: [6]int{18, 90, 250, 700, 875, 1050}, BuildCost: 150, ColorGroup: 4},
	{Index: 19, Type: TileChance, Name: "机会", ColorGroup: -1},
	{Index: 20, Type: TileProperty, Name: "天津", Price: 240, Rent: [6]int{20, 100, 300, 750, 925, 1100}, BuildCost: 150, ColorGroup: 4},
	{Index: 21, Type: TileProperty, Name: "青岛", Price: 260, Rent: [6]int{22, 110, 330, 800, 975, 1150}, BuildCost: 150, ColorGroup: 5},
	{Index: 22, Type: TileTax, Name: "奢侈税", ColorGroup: -1},
	{Index: 23, Type: TileProperty, Name: "大连", Price: 260, Rent: [6]int{22, 110, 330, 800, 975, 1150}, BuildCost: 150, ColorGroup: 5},
	// 左边 (24-31)
	{Index: 24, Type: TileGoToJail, Name: "入狱", ColorGroup: -1},
	{Index: 25, Type: TileProperty, Name: "西安", Price: 280, Rent: [6]int{24, 120, 360, 850, 1025, 1200}, BuildCost: 200, ColorGroup: 5},
	{Index: 26, Type: TileProperty, Name: "厦门", Price: 300, Rent: [6]int{26, 130, 390, 900, 1100, 1275}, BuildCost: 200, ColorGroup: 6},
	{Index: 27, Type: TileProperty, Name: "福州", Price: 300, Rent: [6]int{26, 130, 390, 900, 1100, 1275}, BuildCost: 200, ColorGroup: 6},
	{Index: 28, Type: TileChance, Name: "机会", ColorGroup: -1},
	{Index: 29, Type: TileProperty, Name: "香港", Price: 320, Rent: [6]int{28, 150, 450, 1000, 1200, 1400}, BuildCost: 200, ColorGroup: 6},
	{Index: 30, Type: TileProperty, Name: "上海", Price: 350, Rent: [6]int{35, 175, 500, 1100, 1300, 1500}, BuildCost: 200, ColorGroup: 7},
	{Index: 31, Type: TileProperty, Name: "北京", Price: 400, Rent: [6]int{50, 200, 600, 1400, 1700, 2000}, BuildCost: 200, ColorGroup: 7},
}

// GroupTiles 返回某个颜色组内的全部地块下标
func GroupTiles(colorGroup int) []int {
	if colorGroup < 0 {
		return nil
	}
	var idx []int
	for _, t := range TileDefs {
		if t.ColorGroup == colorGroup {
			idx = append(idx, t.Index)
		}
	}
	return idx
}

// OwnsAllInGroup 判断玩家是否集齐某地块所在的颜色组
func OwnsAllInGroup(playerIndex, tileIndex int, properties []*PropertyState) bool {
	group := TileDefs[tileIndex].ColorGroup
	if group < 0 {
		return false
	}
	for _, i := range GroupTiles(group) {
		if properties[i].OwnerIndex != playerIndex {
			return false
		}
	}
	return true
}
