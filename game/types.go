package game

// GamePhase 游戏阶段（回合状态机的状态标签）
type GamePhase string

const (
	PhaseCharacterSelect GamePhase = "CHARACTER_SELECT"
	PhaseWaiting         GamePhase = "WAITING"
	PhaseRollingDice     GamePhase = "ROLLING_DICE"
	PhaseAnimatingMove   GamePhase = "ANIMATING_MOVE"
	PhaseLandedAction    GamePhase = "LANDED_ACTION"
	PhasePlayerDecision  GamePhase = "PLAYER_DECISION"
	PhaseAIThinking      GamePhase = "AI_THINKING"
	PhaseTurnEnd         GamePhase = "TURN_END"
	PhaseGameOver        GamePhase = "GAME_OVER"
)

// TileType 地块类型
type TileType string

const (
	TileGo          TileType = "GO"
	TileProperty    TileType = "PROPERTY"
	TileChance      TileType = "CHANCE"
	TileTax         TileType = "TAX"
	TileJail        TileType = "JAIL"
	TileFreeParking TileType = "FREE_PARKING"
	TileGoToJail    TileType = "GO_TO_JAIL"
)

// Personality AI 性格，决定买地/建房/用卡/炒股的策略
type Personality string

const (
	Aggressive   Personality = "AGGRESSIVE"
	Conservative Personality = "CONSERVATIVE"
	Balanced     Personality = "BALANCED"
)

// CardType 道具卡类型
type CardType string

const (
	CardGetOutOfJail CardType = "GET_OUT_OF_JAIL"
	CardTeleport     CardType = "TELEPORT"
	CardImmunity     CardType = "IMMUNITY"
	CardRemoteDice   CardType = "REMOTE_DICE"
	CardRob          CardType = "ROB"
)

// 玩家动作字符串（仅这四种有效）
const (
	ActionRoll  = "roll"
	ActionBuy   = "buy"
	ActionPass  = "pass"
	ActionBuild = "build"
)

// TileDef 地块静态定义，进程生命周期内不可变
type TileDef struct {
	Index      int      `json:"index"`
	Type       TileType `json:"type"`
	Name       string   `json:"name"`
	Price      int      `json:"price"`
	Rent       [6]int   `json:"rent"` // 建筑等级 0~5 对应的租金
	BuildCost  int      `json:"buildCost"`
	ColorGroup int      `json:"colorGroup"` // -1 表示非地产
}

// CharacterDef 可选角色
type CharacterDef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CardDef 道具卡定义
type CardDef struct {
	Type CardType `json:"type"`
	Name string   `json:"name"`
}

// PropertyState 地产动态状态，与 TileDefs 按下标对齐
type PropertyState struct {
	OwnerIndex int `json:"ownerIndex"` // -1 = 无主
	Buildings  int `json:"buildings"`  // 0~5，5 为酒店
}

// PlayerState 玩家状态，只由引擎修改
type PlayerState struct {
	Index       int            `json:"index"`
	Name        string         `json:"name"`
	Color       string         `json:"color"`
	Money       int            `json:"money"`
	Position    int            `json:"position"`
	InJail      bool           `json:"inJail"`
	JailTurns   int            `json:"jailTurns"`
	Bankrupt    bool           `json:"bankrupt"`
	IsHuman     bool           `json:"isHuman"`
	AutoPlay    bool           `json:"autoPlay"`
	Personality Personality    `json:"personality"`
	CharacterID string         `json:"characterId"`
	Cards       []CardType     `json:"cards"`
	ImmuneTurns int            `json:"immuneTurns"`
	Stocks      map[string]int `json:"stocks"` // 股票ID -> 持股数
}

// Stock 股票行情，全局共享
type Stock struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"` // 不低于 20
	Trend int    `json:"trend"` // [-2, 2]
}

// DiceResult 一次掷骰结果
type DiceResult struct {
	Die1     int  `json:"die1"`
	Die2     int  `json:"die2"`
	Total    int  `json:"total"`
	IsDouble bool `json:"isDouble"`
}

// GameMessage 游戏内消息（环形缓冲，最多保留 50 条）
type GameMessage struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Color     string `json:"color,omitempty"`
}

// DecisionOption 待决策选项，仅在 PLAYER_DECISION 阶段有效
type DecisionOption struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// GameState 权威游戏状态，每局唯一，整体序列化下发给客户端
type GameState struct {
	Phase              GamePhase        `json:"phase"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	Players            []*PlayerState   `json:"players"`
	Properties         []*PropertyState `json:"properties"`
	Dice               *DiceResult      `json:"dice"`
	Messages           []GameMessage    `json:"messages"`
	DecisionOptions    []DecisionOption `json:"decisionOptions"`
	Winner             int              `json:"winner"`
	TurnCount          int              `json:"turnCount"`
	Stocks             []*Stock         `json:"stocks"`
}

// Event 引擎发出的领域事件，供房间/渲染层消费
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// PlayerConfig 服务端开局时的玩家配置
type PlayerConfig struct {
	Name        string
	CharacterID string
	IsHuman     bool
	Personality Personality
}
