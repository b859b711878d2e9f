package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go-richman/dto"
	"go-richman/game"
	"go-richman/logger"
	"go-richman/utils"
)

const (
	MaxPlayers           = 4
	DefaultActionTimeout = 30 * time.Second
)

// 房间生命周期
const (
	RoomStateLobby    = "lobby"
	RoomStatePlaying  = "playing"
	RoomStateFinished = "finished"
)

// Room 一个对局会话：持有一个引擎实例，把座位映射到客户端，
// 把并发到达的玩家输入串行化进引擎，并向所有客户端回播状态。
// 各房间完全独立，互不共享任何状态。
type Room struct {
	Code   string
	HostID string

	// ActionTimeout 等待真人动作的时限，超时后代为注入默认动作
	ActionTimeout time.Duration

	mu            sync.Mutex
	state         string
	clients       map[string]*Client
	lobby         []*dto.LobbyPlayer
	engine        *game.Engine
	playerClients map[int]string // 引擎座位 -> 客户端ID，"" 表示 AI 座位
	disconnected  map[string]bool
	eventBuf      []game.Event
	actionTimer   *time.Timer
	actionSeq     int // 挂起点代次，作废尚未触发或已触发的旧超时回调
	waitingSeat   int // 当前挂起点等待的座位，-1 表示无
	closed        bool

	engineOpts []game.Option
}

func NewRoom(code string, host *Client, playerName string) *Room {
	r := &Room{
		Code:          code,
		HostID:        host.ID,
		ActionTimeout: DefaultActionTimeout,
		state:         RoomStateLobby,
		clients:       map[string]*Client{},
		playerClients: map[int]string{},
		disconnected:  map[string]bool{},
		waitingSeat:   -1,
	}
	r.AddClient(host, playerName)
	return r
}

// State 房间当前生命周期状态
func (r *Room) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients) == 0
}

// AddClient 把客户端加入大厅并广播花名册。
// 状态和座位在锁内复查，已开局、已满或已关闭的房间拒绝加入
func (r *Room) AddClient(client *Client, playerName string) bool {
	r.mu.Lock()
	if r.closed || r.state != RoomStateLobby || len(r.lobby) >= MaxPlayers {
		r.mu.Unlock()
		return false
	}
	client.room = r
	client.PlayerName = playerName
	r.clients[client.ID] = client

	lp := &dto.LobbyPlayer{
		ID:     client.ID,
		Name:   playerName,
		IsHost: client.ID == r.HostID,
	}
	r.lobby = append(r.lobby, lp)
	roster := r.lobbyRoster()
	r.mu.Unlock()

	if client.ID == r.HostID {
		client.Send("roomCreated", map[string]interface{}{
			"roomCode": r.Code,
			"playerId": client.ID,
		})
	} else {
		client.Send("roomJoined", map[string]interface{}{
			"roomCode": r.Code,
			"playerId": client.ID,
			"players":  roster,
		})
		r.broadcastExcept(client.ID, "playerJoined", map[string]interface{}{
			"player":  lp,
			"players": roster,
		})
	}
	return true
}

// HandleCharacterSelect 大厅内选角，重复选择同一角色会被拒绝
func (r *Room) HandleCharacterSelect(client *Client, characterIndex int) {
	r.mu.Lock()
	if r.state != RoomStateLobby || characterIndex < 0 || characterIndex >= len(game.CharacterDefs) {
		r.mu.Unlock()
		return
	}
	for _, p := range r.lobby {
		if p.ID != client.ID && p.CharacterIndex != nil && *p.CharacterIndex == characterIndex {
			r.mu.Unlock()
			client.Send("error", map[string]interface{}{"message": "该角色已被选择"})
			return
		}
	}
	for _, p := range r.lobby {
		if p.ID == client.ID {
			idx := characterIndex
			p.CharacterIndex = &idx
			break
		}
	}
	roster := r.lobbyRoster()
	r.mu.Unlock()

	r.broadcast("characterSelected", map[string]interface{}{
		"playerId":       client.ID,
		"characterIndex": characterIndex,
		"players":        roster,
	})
}

// HandleStartGame 只有房主能开局，且所有人必须已选角
func (r *Room) HandleStartGame(client *Client) {
	r.mu.Lock()
	if client.ID != r.HostID || r.state != RoomStateLobby {
		r.mu.Unlock()
		return
	}
	for _, p := range r.lobby {
		if p.CharacterIndex == nil {
			r.mu.Unlock()
			client.Send("error", map[string]interface{}{"message": "所有玩家必须选择角色"})
			return
		}
	}
	r.mu.Unlock()
	r.startGame()
}

// startGame 组建座位（真人优先，空位补 AI）、建引擎、挂钩子、起主循环
func (r *Room) startGame() {
	r.mu.Lock()
	r.state = RoomStatePlaying

	var usedChars []int
	for _, p := range r.lobby {
		usedChars = append(usedChars, *p.CharacterIndex)
	}

	personalities := []game.Personality{game.Aggressive, game.Conservative, game.Balanced}
	var configs []game.PlayerConfig
	for _, p := range r.lobby {
		ch := game.CharacterDefs[*p.CharacterIndex]
		name := p.Name
		if name == "" {
			name = ch.Name
		}
		configs = append(configs, game.PlayerConfig{Name: name, CharacterID: ch.ID, IsHuman: true})
	}
	aiSeat := 0
	for i := 0; len(configs) < MaxPlayers && i < len(game.CharacterDefs); i++ {
		if utils.IntInSlice(i, usedChars) {
			continue
		}
		ch := game.CharacterDefs[i]
		configs = append(configs, game.PlayerConfig{
			Name:        ch.Name,
			CharacterID: ch.ID,
			Personality: personalities[aiSeat%len(personalities)],
		})
		aiSeat++
	}

	engine := game.NewEngine(r.engineOpts...)
	engine.SetupPlayers(configs)
	r.engine = engine

	// 座位映射：大厅顺序即真人座位顺序，其余为 AI
	for i, p := range r.lobby {
		r.playerClients[i] = p.ID
		if c, ok := r.clients[p.ID]; ok {
			c.PlayerIndex = i
		}
	}
	for i := len(r.lobby); i < len(configs); i++ {
		r.playerClients[i] = ""
	}

	engine.On(func(event string, data interface{}) {
		r.eventBuf = append(r.eventBuf, game.Event{Event: event, Data: data})
	})
	// 每个延时点与挂起点都把 {state, events} 推给所有客户端
	engine.OnDelay = func() {
		r.broadcastState()
	}
	engine.OnWaitingForInput = func() {
		r.mu.Lock()
		r.waitingSeat = engine.State.CurrentPlayerIndex
		r.mu.Unlock()
		r.broadcastState()
		r.armActionTimeout()
	}

	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.Send("gameStarted", map[string]interface{}{"playerIndex": c.PlayerIndex})
	}
	r.broadcastState()

	go r.runGameLoop()
}

// runGameLoop 驱动引擎逐回合推进；轮到掉线的真人座位时，
// 仅该回合临时切换为 BALANCED 性格的 AI 接管，之后恢复
func (r *Room) runGameLoop() {
	engine := r.engine
	for engine.State.Phase != game.PhaseGameOver {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return
		}
		player := engine.State.Players[engine.State.CurrentPlayerIndex]
		clientID := r.playerClients[player.Index]
		takeover := player.IsHuman && clientID != "" && r.disconnected[clientID]
		r.mu.Unlock()

		if takeover {
			prevPersonality := player.Personality
			player.IsHuman = false
			player.Personality = game.Balanced
			engine.ExecuteTurn()
			player.IsHuman = true
			player.Personality = prevPersonality
			r.broadcastState()
			continue
		}

		engine.ExecuteTurn()
		r.clearActionTimeout()
		r.mu.Lock()
		r.waitingSeat = -1
		r.mu.Unlock()
		r.broadcastState()
	}

	r.mu.Lock()
	r.state = RoomStateFinished
	r.mu.Unlock()
	saveRoomInfo(r)
	archiveGame(r)
}

// HandleAction 只接受当前挂起座位对应客户端的动作，其余静默忽略。
// 消耗挂起点和作废超时回调在同一临界区内完成，超时代打无法插入后续挂起点
func (r *Room) HandleAction(client *Client, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.engine == nil || r.state != RoomStatePlaying {
		return
	}
	if r.waitingSeat < 0 || r.playerClients[r.waitingSeat] != client.ID {
		return
	}
	if r.engine.SubmitAction(action) {
		r.actionSeq++
		r.stopTimerLocked()
		r.waitingSeat = -1
	}
}

// HandleDisconnect 大厅内直接移除（必要时换房主）；对局中保留座位，
// 若正轮到该玩家则立刻代为注入默认动作
func (r *Room) HandleDisconnect(client *Client) {
	r.mu.Lock()
	delete(r.clients, client.ID)

	switch r.state {
	case RoomStateLobby:
		var kept []*dto.LobbyPlayer
		for _, p := range r.lobby {
			if p.ID != client.ID {
				kept = append(kept, p)
			}
		}
		r.lobby = kept
		if client.ID == r.HostID && len(r.lobby) > 0 {
			r.HostID = r.lobby[0].ID
			r.lobby[0].IsHost = true
		}
		roster := r.lobbyRoster()
		r.mu.Unlock()
		r.broadcast("playerLeft", map[string]interface{}{
			"playerId": client.ID,
			"players":  roster,
		})

	case RoomStatePlaying:
		r.disconnected[client.ID] = true
		// 正轮到掉线玩家时立刻代为注入默认动作
		if r.waitingSeat >= 0 && r.playerClients[r.waitingSeat] == client.ID {
			r.actionSeq++
			r.stopTimerLocked()
			r.waitingSeat = -1
			if action := r.engine.PendingDefault(); action != "" {
				r.engine.SubmitAction(action)
			}
		}
		r.mu.Unlock()

	default:
		r.mu.Unlock()
	}
}

// Close 释放房间，停掉引擎循环
func (r *Room) Close() {
	r.mu.Lock()
	r.closed = true
	engine := r.engine
	r.mu.Unlock()

	r.clearActionTimeout()
	if engine != nil {
		engine.Stop()
	}
	deleteRoomInfo(r.Code)
}

// armActionTimeout 为真人挂起点设置时限，超时注入默认动作。
// 回调捕获当时的代次：动作先到达时代次已推进，迟到的回调原样返回，
// 不会把默认动作塞进之后才打开的挂起点
func (r *Room) armActionTimeout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actionSeq++
	r.stopTimerLocked()
	if r.engine == nil || r.closed || r.waitingSeat < 0 {
		return
	}
	player := r.engine.State.Players[r.engine.State.CurrentPlayerIndex]
	if !player.IsHuman {
		return
	}
	seq := r.actionSeq
	r.actionTimer = time.AfterFunc(r.ActionTimeout, func() {
		r.timeoutFire(seq, player.Name)
	})
}

// timeoutFire 超时回调本体，代次不匹配说明挂起点已被别的路径消耗
func (r *Room) timeoutFire(seq int, playerName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.actionSeq || r.closed || r.engine == nil {
		return
	}
	logger.Log.Infof("房间 %s 玩家 %s 操作超时，自动代打", r.Code, playerName)
	r.waitingSeat = -1
	if action := r.engine.PendingDefault(); action != "" {
		r.engine.SubmitAction(action)
	}
}

func (r *Room) clearActionTimeout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actionSeq++
	r.stopTimerLocked()
}

// stopTimerLocked 调用方需持有 r.mu
func (r *Room) stopTimerLocked() {
	if r.actionTimer != nil {
		r.actionTimer.Stop()
		r.actionTimer = nil
	}
}

// broadcastState 把完整权威状态连同缓冲事件推给房间内所有客户端，
// 发送失败的连接直接剔除
func (r *Room) broadcastState() {
	r.mu.Lock()
	if r.engine == nil {
		r.mu.Unlock()
		return
	}
	events := r.eventBuf
	r.eventBuf = nil
	if events == nil {
		events = []game.Event{}
	}
	payload := map[string]interface{}{
		"type":   "gameState",
		"state":  r.engine.State,
		"events": events,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		r.mu.Unlock()
		logger.Log.Errorf("❌ 状态序列化失败: %v", err)
		return
	}
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		if err := c.SendRaw(raw); err != nil {
			logger.Log.Infof("广播失败，移除连接: %s", c.ID)
			c.Close()
			r.mu.Lock()
			delete(r.clients, c.ID)
			r.mu.Unlock()
		}
	}
}

func (r *Room) broadcast(msgType string, data map[string]interface{}) {
	r.broadcastExcept("", msgType, data)
}

func (r *Room) broadcastExcept(excludeID, msgType string, data map[string]interface{}) {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for id, c := range r.clients {
		if id != excludeID {
			clients = append(clients, c)
		}
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.Send(msgType, cloneMap(data))
	}
}

// lobbyRoster 大厅花名册快照，调用方需持有 r.mu
func (r *Room) lobbyRoster() []dto.LobbyPlayer {
	roster := make([]dto.LobbyPlayer, 0, len(r.lobby))
	for _, p := range r.lobby {
		roster = append(roster, *p)
	}
	return roster
}

// PlayerCount 大厅人数（对局中为开局时的真人数）
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lobby)
}

// HostName 房主昵称
func (r *Room) HostName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.lobby {
		if p.ID == r.HostID {
			return p.Name
		}
	}
	return ""
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
