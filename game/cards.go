package game

// 手牌与抽卡
const (
	MaxCards   = 3
	CardChance = 0.3 // 踩到机会格后额外获得道具卡的概率
)

// CardDefs 道具卡目录
var CardDefs = []CardDef{
	{Type: CardGetOutOfJail, Name: "免费出狱卡"},
	{Type: CardTeleport, Name: "传送卡"},
	{Type: CardImmunity, Name: "免租卡"},
	{Type: CardRemoteDice, Name: "遥控骰子"},
	{Type: CardRob, Name: "抢夺卡"},
}

// CardName 取卡片显示名
func CardName(t CardType) string {
	for _, def := range CardDefs {
		if def.Type == t {
			return def.Name
		}
	}
	return "卡片"
}

// chanceEvent 机会格事件表（文案 + 金额增减）
type chanceEvent struct {
	Text  string
	Money int
}

var chanceEvents = []chanceEvent{
	{Text: "银行发放红利，获得 $100", Money: 100},
	{Text: "医疗费用，支付 $100", Money: -100},
	{Text: "中了小奖，获得 $50", Money: 50},
	{Text: "房屋维修，支付 $80", Money: -80},
	{Text: "生日快乐！获得 $150", Money: 150},
	{Text: "交通罚款，支付 $50", Money: -50},
	{Text: "投资回报，获得 $200", Money: 200},
	{Text: "意外事故，支付 $120", Money: -120},
}

// StockDefs 股票目录，开局时价格会在基准价附近随机浮动
var StockDefs = []Stock{
	{ID: "tech", Name: "龙腾科技", Price: 150},
	{ID: "bank", Name: "四海银行", Price: 120},
	{ID: "estate", Name: "恒昌地产", Price: 100},
	{ID: "energy", Name: "东方能源", Price: 80},
	{ID: "retail", Name: "百汇商贸", Price: 60},
}
