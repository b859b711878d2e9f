package ws

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go-richman/game"
)

func TestCreateRoomGeneratesValidCode(t *testing.T) {
	m := NewRoomManager()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		client, _ := newFakeClient()
		room := m.CreateRoom(client, "玩家")
		defer room.Close()

		if len(room.Code) != roomCodeLength {
			t.Fatalf("房间号长度 = %d", len(room.Code))
		}
		for _, ch := range room.Code {
			if !strings.ContainsRune(roomCodeAlphabet, ch) {
				t.Fatalf("房间号含非法字符: %s", room.Code)
			}
		}
		if seen[room.Code] {
			t.Fatalf("房间号重复: %s", room.Code)
		}
		seen[room.Code] = true
	}
}

func TestJoinRoomIsCaseInsensitive(t *testing.T) {
	m := NewRoomManager()
	host, _ := newFakeClient()
	room := m.CreateRoom(host, "房主")
	defer room.Close()

	guest, _ := newFakeClient()
	if m.JoinRoom(strings.ToLower(room.Code), guest, "访客") == nil {
		t.Fatal("小写房间号应能加入")
	}
	if room.PlayerCount() != 2 {
		t.Fatalf("大厅人数 = %d, 期望 2", room.PlayerCount())
	}
}

func TestJoinRoomRejections(t *testing.T) {
	m := NewRoomManager()

	stranger, _ := newFakeClient()
	if m.JoinRoom("ZZZZ", stranger, "路人") != nil {
		t.Fatal("不存在的房间应拒绝加入")
	}

	host, _ := newFakeClient()
	room := m.CreateRoom(host, "房主")
	defer room.Close()
	for i := 0; i < MaxPlayers-1; i++ {
		c, _ := newFakeClient()
		if m.JoinRoom(room.Code, c, "玩家") == nil {
			t.Fatalf("第 %d 人加入失败", i+2)
		}
	}

	extra, _ := newFakeClient()
	if m.JoinRoom(room.Code, extra, "挤不下") != nil {
		t.Fatal("满员房间应拒绝加入")
	}
}

func TestRemoveRoomIsIdempotent(t *testing.T) {
	m := NewRoomManager()
	host, _ := newFakeClient()
	room := m.CreateRoom(host, "房主")
	defer room.Close()

	m.RemoveRoom(room.Code)
	if m.Get(room.Code) != nil {
		t.Fatal("房间应已摘除")
	}
	m.RemoveRoom(room.Code) // 重复摘除无害
}

func TestJoinRejectedOnceGameStarted(t *testing.T) {
	m := NewRoomManager()
	host, _ := newFakeClient()
	room := m.CreateRoom(host, "房主")
	room.engineOpts = []game.Option{game.WithSeed(1), game.WithoutDelays()}
	defer room.Close()
	room.HandleCharacterSelect(host, 0)
	room.HandleStartGame(host)

	late, _ := newFakeClient()
	if m.JoinRoom(room.Code, late, "迟到") != nil {
		t.Fatal("开局后不应能加入")
	}
}

func TestJoinRejectedAfterClose(t *testing.T) {
	m := NewRoomManager()
	host, _ := newFakeClient()
	room := m.CreateRoom(host, "房主")

	room.Close()
	m.RemoveRoom(room.Code)

	guest, _ := newFakeClient()
	if m.JoinRoom(room.Code, guest, "访客") != nil {
		t.Fatal("已回收的房间不应能加入")
	}
}

func TestConcurrentJoinsNeverOverfill(t *testing.T) {
	m := NewRoomManager()
	host, _ := newFakeClient()
	room := m.CreateRoom(host, "房主")
	defer room.Close()

	var wg sync.WaitGroup
	var joined int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, _ := newFakeClient()
			if m.JoinRoom(room.Code, c, "抢座") != nil {
				atomic.AddInt64(&joined, 1)
			}
		}()
	}
	wg.Wait()

	if got := room.PlayerCount(); got != MaxPlayers {
		t.Fatalf("大厅人数 = %d, 期望 %d", got, MaxPlayers)
	}
	if joined != MaxPlayers-1 {
		t.Fatalf("成功加入数 = %d, 期望 %d", joined, MaxPlayers-1)
	}
}
