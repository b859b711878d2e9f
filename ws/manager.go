package ws

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"go-richman/logger"
)

// 房间号字符集，去掉了易混淆的 I O 0 1
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 4

// RoomManager 进程内房间表，所有房间的创建、查找和回收都走这里
type RoomManager struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
}

var DefaultManager = NewRoomManager()

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: map[string]*Room{},
		rng:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// CreateRoom 生成不重复的房间号并建房，创建者即房主
func (m *RoomManager) CreateRoom(client *Client, playerName string) *Room {
	m.mu.Lock()
	code := m.generateCode()
	room := NewRoom(code, client, playerName)
	m.rooms[code] = room
	m.mu.Unlock()

	saveRoomInfo(room)
	logger.Log.Infof("✅ 房间已创建: %s (房主 %s)", code, playerName)
	return room
}

// JoinRoom 按房间号加入，号码大小写不敏感；
// 房间不存在、已满、已开局或已回收返回 nil。容量由 AddClient 在房间锁内复查，
// 并发抢最后一个座位只会有一人成功
func (m *RoomManager) JoinRoom(code string, client *Client, playerName string) *Room {
	m.mu.Lock()
	room, ok := m.rooms[strings.ToUpper(code)]
	m.mu.Unlock()

	if !ok || !room.AddClient(client, playerName) {
		return nil
	}
	saveRoomInfo(room)
	return room
}

func (m *RoomManager) Get(code string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[strings.ToUpper(code)]
}

// List 所有在管房间的快照
func (m *RoomManager) List() []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

// RemoveRoom 从表里摘除房间，重复调用无害
func (m *RoomManager) RemoveRoom(code string) {
	code = strings.ToUpper(code)
	m.mu.Lock()
	_, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if ok {
		logger.Log.Infof("房间已回收: %s", code)
	}
}

// generateCode 调用方需持有 m.mu
func (m *RoomManager) generateCode() string {
	for {
		buf := make([]byte, roomCodeLength)
		for i := range buf {
			buf[i] = roomCodeAlphabet[m.rng.Intn(len(roomCodeAlphabet))]
		}
		code := string(buf)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}
