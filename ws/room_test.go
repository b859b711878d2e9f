package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-richman/game"
)

// fakeConn 记录出站消息的测试桩
type fakeConn struct {
	mu       sync.Mutex
	messages []map[string]interface{}
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	var msg map[string]interface{}
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) countOfType(msgType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m["type"] == msgType {
			n++
		}
	}
	return n
}

func (c *fakeConn) lastOfType(msgType string) map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i]["type"] == msgType {
			return c.messages[i]
		}
	}
	return nil
}

func newFakeClient() (*Client, *fakeConn) {
	conn := &fakeConn{}
	return NewClient(conn), conn
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("等待条件超时")
}

// newTestRoom 建房并注入测试用引擎选项
func newTestRoom(host *Client, name string) *Room {
	r := NewRoom("TEST", host, name)
	r.engineOpts = []game.Option{game.WithSeed(1), game.WithoutDelays()}
	r.ActionTimeout = 20 * time.Millisecond
	return r
}

func (r *Room) waitingSeatSnapshot() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waitingSeat
}

func TestLobbyJoinAndCharacterSelect(t *testing.T) {
	host, hostConn := newFakeClient()
	room := newTestRoom(host, "小明")
	defer room.Close()

	if hostConn.countOfType("roomCreated") != 1 {
		t.Fatal("房主未收到 roomCreated")
	}

	guest, guestConn := newFakeClient()
	room.AddClient(guest, "小红")

	if guestConn.countOfType("roomJoined") != 1 {
		t.Fatal("加入者未收到 roomJoined")
	}
	if hostConn.countOfType("playerJoined") != 1 {
		t.Fatal("房主未收到 playerJoined")
	}

	room.HandleCharacterSelect(host, 0)
	room.HandleCharacterSelect(guest, 0)
	if msg := guestConn.lastOfType("error"); msg == nil || msg["message"] != "该角色已被选择" {
		t.Fatalf("重复选角应被拒绝: %v", msg)
	}
	room.HandleCharacterSelect(guest, 1)
	if guestConn.countOfType("characterSelected") < 2 {
		t.Fatal("选角广播缺失")
	}
}

func TestStartGameRequiresHostAndFullSelection(t *testing.T) {
	host, hostConn := newFakeClient()
	room := newTestRoom(host, "小明")
	defer room.Close()
	guest, _ := newFakeClient()
	room.AddClient(guest, "小红")

	room.HandleCharacterSelect(host, 0)

	// 有人未选角不能开局
	room.HandleStartGame(host)
	if msg := hostConn.lastOfType("error"); msg == nil || msg["message"] != "所有玩家必须选择角色" {
		t.Fatalf("未全员选角时开局应报错: %v", msg)
	}

	room.HandleCharacterSelect(guest, 1)

	// 非房主不能开局
	room.HandleStartGame(guest)
	if room.State() != RoomStateLobby {
		t.Fatal("非房主不应能开局")
	}

	room.HandleStartGame(host)
	if room.State() != RoomStatePlaying {
		t.Fatal("房主开局失败")
	}
	if hostConn.countOfType("gameStarted") != 1 {
		t.Fatal("未收到 gameStarted")
	}

	// AI 补满空位
	if got := len(room.engine.State.Players); got != MaxPlayers {
		t.Fatalf("玩家数 = %d, 期望 %d", got, MaxPlayers)
	}
	if !room.engine.State.Players[0].IsHuman || !room.engine.State.Players[1].IsHuman {
		t.Fatal("真人应占据前两个座位")
	}
	if room.engine.State.Players[2].IsHuman || room.engine.State.Players[3].IsHuman {
		t.Fatal("空位应由 AI 补上")
	}
}

func TestHandleActionOnlyFromWaitingSeat(t *testing.T) {
	host, _ := newFakeClient()
	room := newTestRoom(host, "小明")
	room.ActionTimeout = time.Minute // 本用例不靠超时推进
	defer room.Close()
	guest, _ := newFakeClient()
	room.AddClient(guest, "小红")
	room.HandleCharacterSelect(host, 0)
	room.HandleCharacterSelect(guest, 1)
	room.HandleStartGame(host)

	// 引擎停在房主（0 号座位）的掷骰挂起点
	waitUntil(t, 2*time.Second, func() bool {
		return room.waitingSeatSnapshot() == 0
	})

	// 非当前座位的动作被静默忽略
	room.HandleAction(guest, "roll")
	if room.engine.PendingDefault() != "roll" {
		t.Fatal("其他玩家的动作不应消耗挂起点")
	}
	if room.waitingSeatSnapshot() != 0 {
		t.Fatal("挂起座位不应改变")
	}

	// 当前座位的动作恢复引擎
	room.HandleAction(host, "roll")
	if room.waitingSeatSnapshot() != -1 {
		t.Fatal("消耗动作后挂起座位应复位")
	}

	// 引擎继续推进到下一个挂起点
	waitUntil(t, 2*time.Second, func() bool {
		return room.waitingSeatSnapshot() != -1
	})
}

func TestActionTimeoutInjectsDefault(t *testing.T) {
	host, hostConn := newFakeClient()
	room := newTestRoom(host, "小明")
	defer room.Close()
	room.HandleCharacterSelect(host, 0)
	room.HandleStartGame(host)

	// 不提交任何动作，超时代打应让回合继续推进。
	// 进度只从广播流观察，不直接读运行中的引擎状态
	waitUntil(t, 5*time.Second, func() bool {
		msg := hostConn.lastOfType("gameState")
		if msg == nil {
			return false
		}
		state, _ := msg["state"].(map[string]interface{})
		if state == nil {
			return false
		}
		turnCount, _ := state["turnCount"].(float64)
		return turnCount >= 2
	})
}

func TestDisconnectedHumanIsTakenOver(t *testing.T) {
	host, _ := newFakeClient()
	room := newTestRoom(host, "小明")
	defer room.Close()
	room.HandleCharacterSelect(host, 0)
	room.HandleStartGame(host)

	// 等引擎停在房主的掷骰挂起点，此时修改资金是安全的
	waitUntil(t, 2*time.Second, func() bool {
		return room.waitingSeatSnapshot() == 0
	})
	for _, p := range room.engine.State.Players {
		p.Money = 400
	}

	room.HandleDisconnect(host)
	if !room.IsEmpty() {
		t.Fatal("唯一客户端断开后房间应为空")
	}

	// 掉线座位被接管，全 AI 对局应跑到终局
	waitUntil(t, 15*time.Second, func() bool {
		return room.State() == RoomStateFinished
	})
	// 状态进入 finished 时引擎循环已退出，之后读引擎状态无竞争
	if room.engine.State.Phase != game.PhaseGameOver {
		t.Fatalf("终局阶段 = %s", room.engine.State.Phase)
	}
}

func (r *Room) actionSeqSnapshot() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actionSeq
}

func TestStaleTimeoutDoesNotConsumeNextWait(t *testing.T) {
	host, _ := newFakeClient()
	room := newTestRoom(host, "小明")
	room.ActionTimeout = time.Minute
	defer room.Close()
	room.HandleCharacterSelect(host, 0)
	room.HandleStartGame(host)

	waitUntil(t, 2*time.Second, func() bool {
		return room.waitingSeatSnapshot() == 0
	})
	staleSeq := room.actionSeqSnapshot()

	// 动作先到达，掷骰挂起点被正常消耗
	room.HandleAction(host, "roll")

	// 引擎推进到下一个真人挂起点
	waitUntil(t, 2*time.Second, func() bool {
		return room.waitingSeatSnapshot() == 0
	})
	next := room.engine.PendingDefault()

	// 为上一个挂起点武装的超时此刻才触发，代次不匹配必须原样返回
	room.timeoutFire(staleSeq, "小明")

	if room.engine.PendingDefault() != next {
		t.Fatal("过期超时回调不应消耗新的挂起点")
	}
	if room.waitingSeatSnapshot() != 0 {
		t.Fatal("过期超时回调不应复位挂起座位")
	}
}
