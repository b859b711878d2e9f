package game

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// EventCallback 领域事件回调，按因果顺序在回合内依次触发
type EventCallback func(event string, data interface{})

// pendingWait 单槽挂起点：引擎同一时刻最多等待一个外部动作
type pendingWait struct {
	ch            chan string
	accepted      map[string]bool
	defaultAction string // 超时/掉线时代注入的动作
	autoAction    string // 托管模式下代为选择的动作
}

// CardTarget 用卡时的目标参数，不需要的字段填 -1
type CardTarget struct {
	Position     int
	TargetPlayer int
	DiceTotal    int
}

// NoTarget 无目标参数
var NoTarget = CardTarget{Position: -1, TargetPlayer: -1, DiceTotal: -1}

// Engine 回合状态机。权威 GameState 由引擎独占持有，
// 外部只读状态或通过 SubmitAction / UseCard 等入口提交输入。
// 引擎逻辑在单一 goroutine 上推进，挂起点之外不接受并发修改。
type Engine struct {
	State *GameState

	// OnDelay / OnWaitingForInput 分别在每个节奏延时点和每个挂起点触发，
	// 房间层借此向客户端广播 {state, events}
	OnDelay           func()
	OnWaitingForInput func()

	listeners []EventCallback

	rng     *rand.Rand
	diceFn  func(*rand.Rand) DiceResult
	noDelay bool

	mu          sync.Mutex
	pending     *pendingWait
	forcedTotal int // 遥控骰子锁定的下一次点数，0 表示未锁定

	charSelected chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
}

// Option 引擎构造选项
type Option func(*Engine)

// WithSeed 指定随机种子，便于复现和测试
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithoutDelays 关闭节奏延时（测试用）
func WithoutDelays() Option {
	return func(e *Engine) { e.noDelay = true }
}

// NewEngine 创建一局新游戏，初始阶段为选角
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng:          rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		diceFn:       RollDice,
		charSelected: make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	properties := make([]*PropertyState, TotalTiles)
	for i := range properties {
		properties[i] = &PropertyState{OwnerIndex: -1}
	}
	e.State = &GameState{
		Phase:           PhaseCharacterSelect,
		Players:         []*PlayerState{},
		Properties:      properties,
		Messages:        []GameMessage{{Text: "请选择你的角色", Timestamp: time.Now().UnixMilli()}},
		DecisionOptions: []DecisionOption{},
		Winner:          -1,
		Stocks:          NewStocks(e.rng),
	}
	return e
}

// On 注册事件监听器，按注册顺序回调
func (e *Engine) On(cb EventCallback) {
	e.listeners = append(e.listeners, cb)
}

func (e *Engine) emit(event string, data interface{}) {
	for _, cb := range e.listeners {
		cb(event, data)
	}
}

// AddMessage 追加一条游戏消息，超出 50 条时淘汰最旧的
func (e *Engine) AddMessage(text, color string) {
	e.State.Messages = append(e.State.Messages, GameMessage{
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Color:     color,
	})
	if len(e.State.Messages) > 50 {
		e.State.Messages = e.State.Messages[1:]
	}
}

// CurrentPlayer 当前行动玩家
func (e *Engine) CurrentPlayer() *PlayerState {
	return e.State.Players[e.State.CurrentPlayerIndex]
}

func (e *Engine) activePlayers() []*PlayerState {
	var active []*PlayerState
	for _, p := range e.State.Players {
		if !p.Bankrupt {
			active = append(active, p)
		}
	}
	return active
}

// SelectCharacter 单机模式：玩家选角后自动补齐三个 AI 对手
func (e *Engine) SelectCharacter(charIndex int) {
	if e.State.Phase != PhaseCharacterSelect {
		return
	}
	if charIndex < 0 || charIndex >= len(CharacterDefs) {
		return
	}

	selected := CharacterDefs[charIndex]
	var remaining []CharacterDef
	for i, ch := range CharacterDefs {
		if i != charIndex {
			remaining = append(remaining, ch)
		}
	}
	e.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	personalities := []Personality{Aggressive, Conservative, Balanced}
	players := []*PlayerState{newPlayer(0, selected.Name, selected.Color, true, Balanced, selected.ID)}
	for i, ch := range remaining {
		players = append(players, newPlayer(i+1, ch.Name, ch.Color, false, personalities[i], ch.ID))
	}
	e.State.Players = players

	e.State.Phase = PhaseWaiting
	e.emit("characterSelected", map[string]interface{}{"charIndex": charIndex})
	e.AddMessage(fmt.Sprintf("你选择了 %s！游戏开始！", selected.Name), "#f1c40f")

	select {
	case e.charSelected <- struct{}{}:
	default:
	}
}

// SetupPlayers 服务端开局：按房间给定的座位配置直接建立玩家
func (e *Engine) SetupPlayers(configs []PlayerConfig) {
	players := make([]*PlayerState, 0, len(configs))
	for i, cfg := range configs {
		color := "#888"
		for _, ch := range CharacterDefs {
			if ch.ID == cfg.CharacterID {
				color = ch.Color
				break
			}
		}
		personality := cfg.Personality
		if personality == "" {
			personality = Balanced
		}
		players = append(players, newPlayer(i, cfg.Name, color, cfg.IsHuman, personality, cfg.CharacterID))
	}
	e.State.Players = players
	e.State.Phase = PhaseWaiting
	e.State.Messages = []GameMessage{{Text: "游戏开始！", Timestamp: time.Now().UnixMilli(), Color: "#f1c40f"}}
}

func newPlayer(index int, name, color string, isHuman bool, personality Personality, characterID string) *PlayerState {
	return &PlayerState{
		Index:       index,
		Name:        name,
		Color:       color,
		Money:       StartingMoney,
		IsHuman:     isHuman,
		Personality: personality,
		CharacterID: characterID,
		Cards:       []CardType{},
		Stocks:      map[string]int{},
	}
}

// Run 游戏主循环：等待选角（如需要）后逐回合推进直到结束
func (e *Engine) Run() {
	if e.State.Phase == PhaseCharacterSelect {
		select {
		case <-e.charSelected:
		case <-e.done:
			return
		}
	}
	for e.State.Phase != PhaseGameOver {
		select {
		case <-e.done:
			return
		default:
		}
		e.ExecuteTurn()
	}
}

// Stop 终止游戏循环并唤醒所有阻塞点
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// ExecuteTurn 执行当前玩家的一个完整回合
func (e *Engine) ExecuteTurn() {
	player := e.CurrentPlayer()
	if player.Bankrupt {
		e.nextPlayer()
		return
	}

	// 免租效果在其持有者自己的回合开始时递减
	if player.ImmuneTurns > 0 {
		player.ImmuneTurns--
		if player.ImmuneTurns == 0 {
			e.AddMessage(fmt.Sprintf("%s 的免租效果已结束", player.Name), "#9b59b6")
		}
	}

	e.State.Phase = PhaseWaiting
	e.emit("phaseChange", PhaseWaiting)

	// 回合前窗口：人类玩家通过 UseCard / BuyStock / SellStock 自行操作；
	// AI 与托管玩家按策略自动用卡、交易股票
	if !player.IsHuman || player.AutoPlay {
		e.aiUseCards(player)
		e.aiTradeStocks(player)
	}

	if player.InJail {
		if turnConsumed := e.handleJail(player); turnConsumed {
			return
		}
	}

	// 等待掷骰：真人玩家挂起直到外部 roll 动作到达，AI/托管玩家稍作停顿
	if player.IsHuman && !player.AutoPlay {
		e.State.Phase = PhaseWaiting
		e.emit("phaseChange", PhaseWaiting)
		e.waitForAction(ActionRoll, ActionRoll, ActionRoll)
	} else {
		e.delay(time.Duration(800+e.rng.Intn(400)) * time.Millisecond)
	}

	e.State.Phase = PhaseRollingDice
	dice := e.rollDice()
	e.State.Dice = &dice
	e.emit("diceRolled", dice)
	e.AddMessage(fmt.Sprintf("%s 掷出了 %d+%d=%d", player.Name, dice.Die1, dice.Die2, dice.Total), player.Color)
	e.delay(1200 * time.Millisecond)

	e.movePlayer(player, dice.Total)
	e.handleLanding(player)

	e.State.Phase = PhaseTurnEnd
	e.emit("phaseChange", PhaseTurnEnd)
	e.delay(400 * time.Millisecond)
	e.tickMarket()
	e.checkGameOver()
	if e.State.Phase != PhaseGameOver {
		e.nextPlayer()
	}
}

// handleJail 处理监狱回合，返回 true 表示本回合已结束
func (e *Engine) handleJail(player *PlayerState) bool {
	// 持有出狱卡即按策略使用（消耗），所有玩家同策
	if idx := indexOfCard(player.Cards, CardGetOutOfJail); idx >= 0 && ShouldUseJailCard(player) {
		player.Cards = append(player.Cards[:idx], player.Cards[idx+1:]...)
		player.InJail = false
		player.JailTurns = 0
		e.AddMessage(fmt.Sprintf("%s 使用免费出狱卡！", player.Name), "#9b59b6")
		e.emit("cardUsed", map[string]interface{}{"playerIndex": player.Index, "cardType": CardGetOutOfJail})
		return false
	}

	player.JailTurns++
	if player.JailTurns > 3 {
		// 刑满强制释放，本回合仍可正常掷骰移动
		player.InJail = false
		player.JailTurns = 0
		e.AddMessage(fmt.Sprintf("%s 刑满释放！", player.Name), player.Color)
		return false
	}

	// 掷骰尝试越狱：双数则当回合继续移动，否则本回合到此为止
	e.State.Phase = PhaseRollingDice
	dice := e.rollDice()
	e.State.Dice = &dice
	e.emit("diceRolled", dice)
	e.delay(1000 * time.Millisecond)

	if dice.IsDouble {
		player.InJail = false
		player.JailTurns = 0
		e.AddMessage(fmt.Sprintf("%s 掷出双数，越狱成功！", player.Name), player.Color)
		e.emit("jailEscape", map[string]interface{}{"playerIndex": player.Index})
		e.movePlayer(player, dice.Total)
		e.handleLanding(player)
	} else {
		e.AddMessage(fmt.Sprintf("%s 在监狱中（第%d回合）", player.Name, player.JailTurns), player.Color)
	}

	e.State.Phase = PhaseTurnEnd
	e.emit("phaseChange", PhaseTurnEnd)
	e.delay(500 * time.Millisecond)
	e.tickMarket()
	e.checkGameOver()
	if e.State.Phase != PhaseGameOver {
		e.nextPlayer()
	}
	return true
}

// movePlayer 逐格移动，经过起点发工资；每一步都发事件供渲染层做动画
func (e *Engine) movePlayer(player *PlayerState, steps int) {
	e.State.Phase = PhaseAnimatingMove
	e.emit("phaseChange", PhaseAnimatingMove)

	for i := 0; i < steps; i++ {
		oldPos := player.Position
		player.Position = (player.Position + 1) % TotalTiles
		if player.Position == 0 && oldPos != 0 {
			player.Money += GoSalary
			e.AddMessage(fmt.Sprintf("%s 经过起点，获得 $%d", player.Name, GoSalary), "#2ecc71")
			e.emit("passedGo", map[string]interface{}{"playerIndex": player.Index})
		}
		e.emit("playerStep", map[string]interface{}{
			"playerIndex": player.Index,
			"position":    player.Position,
			"fromPos":     oldPos,
		})
		e.delay(250 * time.Millisecond)
	}
}

func (e *Engine) handleLanding(player *PlayerState) {
	tile := TileDefs[player.Position]
	e.State.Phase = PhaseLandedAction

	switch tile.Type {
	case TileGo:
		e.AddMessage(fmt.Sprintf("%s 到达起点", player.Name), player.Color)

	case TileProperty:
		e.handleProperty(player, player.Position)

	case TileChance:
		e.handleChance(player)

	case TileTax:
		player.Money -= TaxAmount
		e.AddMessage(fmt.Sprintf("%s 缴纳税款 $%d", player.Name, TaxAmount), "#e74c3c")
		e.checkBankrupt(player)

	case TileJail:
		// 路过探监，无事发生
		e.AddMessage(fmt.Sprintf("%s 探访监狱", player.Name), player.Color)

	case TileFreeParking:
		e.AddMessage(fmt.Sprintf("%s 在免费停车休息", player.Name), player.Color)

	case TileGoToJail:
		// 直接传送进监狱，不走中间格
		fromPos := player.Position
		player.Position = JailTileIndex
		player.InJail = true
		player.JailTurns = 0
		e.AddMessage(fmt.Sprintf("%s 被送进监狱！", player.Name), "#e74c3c")
		e.emit("goToJail", map[string]interface{}{"playerIndex": player.Index})
		e.emit("playerStep", map[string]interface{}{
			"playerIndex": player.Index,
			"position":    JailTileIndex,
			"fromPos":     fromPos,
		})
	}
}

func (e *Engine) handleProperty(player *PlayerState, tileIndex int) {
	tile := TileDefs[tileIndex]
	prop := e.State.Properties[tileIndex]

	switch {
	case prop.OwnerIndex == -1:
		// 无主地产：买得起才给出购买选项
		if player.Money < tile.Price {
			e.AddMessage(fmt.Sprintf("%s 资金不足，无法购买 %s", player.Name, tile.Name), player.Color)
			return
		}
		if player.IsHuman && !player.AutoPlay {
			e.State.Phase = PhasePlayerDecision
			e.State.DecisionOptions = []DecisionOption{
				{Label: fmt.Sprintf("购买 %s ($%d)", tile.Name, tile.Price), Action: ActionBuy},
				{Label: "不购买", Action: ActionPass},
			}
			e.emit("phaseChange", PhasePlayerDecision)
			auto := ActionPass
			if ShouldBuy(player, tileIndex, e.State.Properties) {
				auto = ActionBuy
			}
			action := e.waitForAction(ActionPass, auto, ActionBuy, ActionPass)
			if action == ActionBuy {
				e.buyProperty(player, tileIndex)
			} else {
				e.AddMessage(fmt.Sprintf("%s 放弃购买 %s", player.Name, tile.Name), player.Color)
			}
		} else {
			e.State.Phase = PhaseAIThinking
			e.delay(time.Duration(800+e.rng.Intn(400)) * time.Millisecond)
			if ShouldBuy(player, tileIndex, e.State.Properties) {
				e.buyProperty(player, tileIndex)
			} else {
				e.AddMessage(fmt.Sprintf("%s 放弃购买 %s", player.Name, tile.Name), player.Color)
			}
		}

	case prop.OwnerIndex != player.Index:
		// 他人地产：收租（房主破产或在监狱时不收，免租期内不付）
		owner := e.State.Players[prop.OwnerIndex]
		if owner.Bankrupt || owner.InJail {
			return
		}
		if player.ImmuneTurns > 0 {
			e.AddMessage(fmt.Sprintf("%s 使用免租效果，免付租金！", player.Name), "#9b59b6")
			return
		}
		rent := tile.Rent[prop.Buildings]
		player.Money -= rent
		owner.Money += rent
		e.AddMessage(fmt.Sprintf("%s 向 %s 支付租金 $%d", player.Name, owner.Name, rent), "#e74c3c")
		e.emit("rentPaid", map[string]interface{}{
			"payerIndex": player.Index,
			"ownerIndex": owner.Index,
			"rent":       rent,
		})
		e.checkBankrupt(player)

	default:
		e.handleBuild(player, tileIndex)
	}
}

// handleBuild 自有地产上的连续加盖循环，集齐颜色组才允许
func (e *Engine) handleBuild(player *PlayerState, tileIndex int) {
	tile := TileDefs[tileIndex]
	prop := e.State.Properties[tileIndex]

	if !OwnsAllInGroup(player.Index, tileIndex, e.State.Properties) {
		return
	}

	for prop.Buildings < 5 && player.Money >= tile.BuildCost {
		if player.IsHuman && !player.AutoPlay {
			buildingName := fmt.Sprintf("%d级", prop.Buildings+1)
			if prop.Buildings == 4 {
				buildingName = "酒店"
			}
			e.State.Phase = PhasePlayerDecision
			e.State.DecisionOptions = []DecisionOption{
				{Label: fmt.Sprintf("升级到%s ($%d)", buildingName, tile.BuildCost), Action: ActionBuild},
				{Label: "不升级", Action: ActionPass},
			}
			e.emit("phaseChange", PhasePlayerDecision)
			auto := ActionPass
			if ShouldBuild(player, tileIndex, e.State.Properties) {
				auto = ActionBuild
			}
			action := e.waitForAction(ActionPass, auto, ActionBuild, ActionPass)
			if action != ActionBuild {
				break
			}
			e.buildOnProperty(player, tileIndex)
		} else {
			e.State.Phase = PhaseAIThinking
			e.delay(time.Duration(600+e.rng.Intn(400)) * time.Millisecond)
			if !ShouldBuild(player, tileIndex, e.State.Properties) {
				break
			}
			e.buildOnProperty(player, tileIndex)
		}
	}
}

func (e *Engine) buyProperty(player *PlayerState, tileIndex int) {
	tile := TileDefs[tileIndex]
	player.Money -= tile.Price
	e.State.Properties[tileIndex].OwnerIndex = player.Index
	e.State.Properties[tileIndex].Buildings = 1 // 购入即为 1 级
	e.AddMessage(fmt.Sprintf("%s 购买了 %s ($%d)", player.Name, tile.Name, tile.Price), player.Color)
	e.emit("propertyBought", map[string]interface{}{"playerIndex": player.Index, "tileIndex": tileIndex})
}

func (e *Engine) buildOnProperty(player *PlayerState, tileIndex int) {
	tile := TileDefs[tileIndex]
	prop := e.State.Properties[tileIndex]
	player.Money -= tile.BuildCost
	prop.Buildings++
	label := fmt.Sprintf("%d级建筑", prop.Buildings)
	if prop.Buildings == 5 {
		label = "酒店"
	}
	e.AddMessage(fmt.Sprintf("%s 在 %s 升级到%s ($%d)", player.Name, tile.Name, label, tile.BuildCost), player.Color)
	e.emit("buildProperty", map[string]interface{}{"playerIndex": player.Index, "tileIndex": tileIndex})
}

func (e *Engine) handleChance(player *PlayerState) {
	event := chanceEvents[e.rng.Intn(len(chanceEvents))]
	player.Money += event.Money
	color := "#2ecc71"
	if event.Money < 0 {
		color = "#e74c3c"
	}
	e.AddMessage(fmt.Sprintf("%s: %s", player.Name, event.Text), color)
	e.emit("chanceCard", map[string]interface{}{"playerIndex": player.Index, "money": event.Money})
	e.checkBankrupt(player)

	// 有概率额外获得道具卡，手牌有上限
	if e.rng.Float64() < CardChance && len(player.Cards) < MaxCards {
		card := CardDefs[e.rng.Intn(len(CardDefs))]
		player.Cards = append(player.Cards, card.Type)
		e.AddMessage(fmt.Sprintf("%s 获得了 %s！", player.Name, card.Name), "#9b59b6")
		e.emit("cardObtained", map[string]interface{}{"playerIndex": player.Index, "cardType": card.Type})
	}
}

// checkBankrupt 资金为负即破产：余额清零、名下地产全部归还银行
func (e *Engine) checkBankrupt(player *PlayerState) {
	if player.Money >= 0 {
		return
	}
	player.Bankrupt = true
	player.Money = 0
	for i := 0; i < TotalTiles; i++ {
		if e.State.Properties[i].OwnerIndex == player.Index {
			e.State.Properties[i].OwnerIndex = -1
			e.State.Properties[i].Buildings = 0
		}
	}
	e.AddMessage(fmt.Sprintf("%s 破产了！", player.Name), "#e74c3c")
	e.emit("bankrupt", map[string]interface{}{"playerIndex": player.Index})
}

func (e *Engine) checkGameOver() {
	active := e.activePlayers()
	if len(active) > 1 {
		return
	}
	e.State.Phase = PhaseGameOver
	e.State.Winner = -1
	if len(active) == 1 {
		e.State.Winner = active[0].Index
		e.AddMessage(fmt.Sprintf("%s 获得胜利！", active[0].Name), "#f1c40f")
	}
	e.emit("phaseChange", PhaseGameOver)
}

// nextPlayer 轮转到下一个未破产玩家，扫描有界避免死循环
func (e *Engine) nextPlayer() {
	players := e.State.Players
	next := (e.State.CurrentPlayerIndex + 1) % len(players)
	for safety := 0; players[next].Bankrupt && safety < len(players); safety++ {
		next = (next + 1) % len(players)
	}
	e.State.CurrentPlayerIndex = next
	e.State.TurnCount++
	e.emit("turnChange", next)
}

func (e *Engine) tickMarket() {
	for _, change := range TickMarket(e.rng, e.State.Stocks) {
		e.emit("stockPriceChange", map[string]interface{}{
			"stockId":   change.StockID,
			"oldPrice":  change.OldPrice,
			"newPrice":  change.NewPrice,
			"direction": change.Direction,
			"percent":   change.Percent,
		})
	}
}

func (e *Engine) rollDice() DiceResult {
	if e.forcedTotal >= 2 {
		total := e.forcedTotal
		e.forcedTotal = 0
		die1 := total / 2
		die2 := total - die1
		if die1 > 6 {
			die1, die2 = 6, total-6
		}
		return DiceResult{Die1: die1, Die2: die2, Total: total, IsDouble: die1 == die2}
	}
	return e.diceFn(e.rng)
}

// ===== 挂起 / 恢复 =====

// waitForAction 打开一个挂起点并阻塞等待外部动作。
// accepted 之外的动作不会消耗该挂起点；defaultAction 用于超时/掉线注入，
// autoAction 用于托管接管。
func (e *Engine) waitForAction(defaultAction, autoAction string, accepted ...string) string {
	w := &pendingWait{
		ch:            make(chan string, 1),
		accepted:      make(map[string]bool, len(accepted)),
		defaultAction: defaultAction,
		autoAction:    autoAction,
	}
	for _, a := range accepted {
		w.accepted[a] = true
	}

	e.mu.Lock()
	if e.pending != nil {
		// 不变量被破坏：同一时刻只能有一个挂起点。按无操作处理
		e.mu.Unlock()
		return defaultAction
	}
	e.pending = w
	e.mu.Unlock()

	if e.OnWaitingForInput != nil {
		e.OnWaitingForInput()
	}

	select {
	case action := <-w.ch:
		e.State.DecisionOptions = []DecisionOption{}
		return action
	case <-e.done:
		e.mu.Lock()
		if e.pending == w {
			e.pending = nil
		}
		e.mu.Unlock()
		return defaultAction
	}
}

// SubmitAction 提交一个玩家动作，返回是否真正恢复了挂起点。
// 没有挂起点或动作不被当前挂起点接受时为无操作
func (e *Engine) SubmitAction(action string) bool {
	e.mu.Lock()
	w := e.pending
	if w == nil || !w.accepted[action] {
		e.mu.Unlock()
		return false
	}
	e.pending = nil
	e.mu.Unlock()
	w.ch <- action
	return true
}

// PendingDefault 当前挂起点的默认动作；无挂起点时返回空串
func (e *Engine) PendingDefault() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return ""
	}
	return e.pending.defaultAction
}

// submitPendingAuto 以托管策略结果恢复当前挂起点
func (e *Engine) submitPendingAuto() {
	e.mu.Lock()
	w := e.pending
	if w == nil {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	e.mu.Unlock()
	w.ch <- w.autoAction
}

func (e *Engine) delay(d time.Duration) {
	if e.OnDelay != nil {
		e.OnDelay()
	}
	if e.noDelay {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-e.done:
	}
}

// ===== 外部入口：托管 / 卡片 / 股票 =====
// 下列方法必须在引擎挂起（等待输入）期间调用：
// 挂起期间引擎 goroutine 停在 waitForAction，状态可以安全修改。

// ToggleAutoPlay 切换真人玩家的托管模式
func (e *Engine) ToggleAutoPlay(playerIndex int) {
	if playerIndex < 0 || playerIndex >= len(e.State.Players) {
		return
	}
	player := e.State.Players[playerIndex]
	if !player.IsHuman {
		return
	}
	player.AutoPlay = !player.AutoPlay
	status := "关闭"
	if player.AutoPlay {
		status = "开启"
	}
	e.AddMessage(fmt.Sprintf("%s %s托管模式", player.Name, status), "#9b59b6")
	e.emit("autoPlayToggled", map[string]interface{}{"playerIndex": playerIndex, "autoPlay": player.AutoPlay})

	// 恰好轮到该玩家且正在等待输入时，立即代为操作
	if player.AutoPlay && e.State.CurrentPlayerIndex == playerIndex {
		go func() {
			if !e.noDelay {
				t := time.NewTimer(500 * time.Millisecond)
				defer t.Stop()
				select {
				case <-t.C:
				case <-e.done:
					return
				}
			}
			e.submitPendingAuto()
		}()
	}
}

// UseCard 真人玩家使用道具卡，成功返回 true
func (e *Engine) UseCard(playerIndex int, card CardType, target CardTarget) bool {
	if playerIndex < 0 || playerIndex >= len(e.State.Players) {
		return false
	}
	player := e.State.Players[playerIndex]
	if player.Bankrupt {
		return false
	}
	cardIndex := indexOfCard(player.Cards, card)
	if cardIndex < 0 {
		return false
	}

	switch card {
	case CardImmunity:
		if player.ImmuneTurns > 0 {
			return false
		}
		player.Cards = append(player.Cards[:cardIndex], player.Cards[cardIndex+1:]...)
		player.ImmuneTurns = 3
		e.AddMessage(fmt.Sprintf("%s 使用了免租卡！", player.Name), "#9b59b6")
		e.emit("cardUsed", map[string]interface{}{"playerIndex": playerIndex, "cardType": card})
		return true

	case CardGetOutOfJail:
		if !player.InJail {
			return false
		}
		player.Cards = append(player.Cards[:cardIndex], player.Cards[cardIndex+1:]...)
		player.InJail = false
		player.JailTurns = 0
		e.AddMessage(fmt.Sprintf("%s 使用免费出狱卡！", player.Name), "#9b59b6")
		e.emit("cardUsed", map[string]interface{}{"playerIndex": playerIndex, "cardType": card})
		return true

	case CardTeleport:
		if target.Position < 0 {
			return false
		}
		player.Cards = append(player.Cards[:cardIndex], player.Cards[cardIndex+1:]...)
		oldPos := player.Position
		player.Position = target.Position % TotalTiles
		e.AddMessage(fmt.Sprintf("%s 使用传送卡！", player.Name), "#9b59b6")
		e.emit("cardUsed", map[string]interface{}{"playerIndex": playerIndex, "cardType": card})
		e.emit("playerStep", map[string]interface{}{
			"playerIndex": playerIndex,
			"position":    player.Position,
			"fromPos":     oldPos,
		})
		return true

	case CardRemoteDice:
		if target.DiceTotal < 2 || target.DiceTotal > 12 {
			return false
		}
		player.Cards = append(player.Cards[:cardIndex], player.Cards[cardIndex+1:]...)
		e.forcedTotal = target.DiceTotal
		e.AddMessage(fmt.Sprintf("%s 使用遥控骰子，下次必掷 %d 点！", player.Name, target.DiceTotal), "#9b59b6")
		e.emit("cardUsed", map[string]interface{}{"playerIndex": playerIndex, "cardType": card})
		return true

	case CardRob:
		if target.TargetPlayer < 0 || target.TargetPlayer >= len(e.State.Players) {
			return false
		}
		victim := e.State.Players[target.TargetPlayer]
		if victim.Bankrupt || len(victim.Cards) == 0 {
			return false
		}
		player.Cards = append(player.Cards[:cardIndex], player.Cards[cardIndex+1:]...)
		stolenIdx := e.rng.Intn(len(victim.Cards))
		stolen := victim.Cards[stolenIdx]
		victim.Cards = append(victim.Cards[:stolenIdx], victim.Cards[stolenIdx+1:]...)
		player.Cards = append(player.Cards, stolen)
		e.AddMessage(fmt.Sprintf("%s 从 %s 抢夺了 %s！", player.Name, victim.Name, CardName(stolen)), "#9b59b6")
		e.emit("cardUsed", map[string]interface{}{
			"playerIndex":       playerIndex,
			"cardType":          card,
			"targetPlayerIndex": target.TargetPlayer,
		})
		return true
	}
	return false
}

// BuyStock 按现价买入股票
func (e *Engine) BuyStock(playerIndex int, stockID string, shares int) bool {
	if playerIndex < 0 || playerIndex >= len(e.State.Players) || shares <= 0 {
		return false
	}
	player := e.State.Players[playerIndex]
	if player.Bankrupt {
		return false
	}
	stock := e.findStock(stockID)
	if stock == nil {
		return false
	}
	cost := shares * stock.Price
	if player.Money < cost {
		return false
	}
	player.Money -= cost
	player.Stocks[stockID] += shares
	e.AddMessage(fmt.Sprintf("%s 买入 %d 股 %s", player.Name, shares, stock.Name), "#3498db")
	e.emit("stockBought", map[string]interface{}{
		"playerIndex": playerIndex,
		"stockId":     stockID,
		"shares":      shares,
		"price":       stock.Price,
	})
	return true
}

// SellStock 按现价卖出持仓
func (e *Engine) SellStock(playerIndex int, stockID string, shares int) bool {
	if playerIndex < 0 || playerIndex >= len(e.State.Players) || shares <= 0 {
		return false
	}
	player := e.State.Players[playerIndex]
	if player.Bankrupt {
		return false
	}
	stock := e.findStock(stockID)
	if stock == nil {
		return false
	}
	if player.Stocks[stockID] < shares {
		return false
	}
	player.Money += shares * stock.Price
	player.Stocks[stockID] -= shares
	e.AddMessage(fmt.Sprintf("%s 卖出 %d 股 %s", player.Name, shares, stock.Name), "#e67e22")
	e.emit("stockSold", map[string]interface{}{
		"playerIndex": playerIndex,
		"stockId":     stockID,
		"shares":      shares,
		"price":       stock.Price,
	})
	return true
}

// ===== AI 回合前动作 =====

func (e *Engine) aiUseCards(player *PlayerState) {
	if indexOfCard(player.Cards, CardImmunity) >= 0 && player.ImmuneTurns == 0 {
		if ShouldUseImmunityCard(player, e.State) {
			idx := indexOfCard(player.Cards, CardImmunity)
			player.Cards = append(player.Cards[:idx], player.Cards[idx+1:]...)
			player.ImmuneTurns = 3
			e.AddMessage(fmt.Sprintf("%s 使用了免租卡！", player.Name), "#9b59b6")
			e.emit("cardUsed", map[string]interface{}{"playerIndex": player.Index, "cardType": CardImmunity})
		}
	}
}

func (e *Engine) aiTradeStocks(player *PlayerState) {
	for _, stock := range e.State.Stocks {
		// 卖出规模按回合开始时的持仓算，本回合刚买入的不动
		holding := player.Stocks[stock.ID]

		if ShouldBuyStock(player, stock) {
			// 最多投入两成现金，单次不超过 5 股
			maxShares := player.Money / 5 / stock.Price
			if maxShares > 5 {
				maxShares = 5
			}
			if maxShares > 0 {
				e.BuyStock(player.Index, stock.ID, maxShares)
			}
		}

		if holding > 0 && ShouldSellStock(player, stock) {
			// 清掉一半持仓，向上取整
			e.SellStock(player.Index, stock.ID, (holding+1)/2)
		}
	}
}

func (e *Engine) findStock(id string) *Stock {
	for _, s := range e.State.Stocks {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func indexOfCard(cards []CardType, t CardType) int {
	for i, c := range cards {
		if c == t {
			return i
		}
	}
	return -1
}
