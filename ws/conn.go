package ws

import (
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
)

// WriteOnlyConn 出站连接抽象，真实 websocket 连接与测试桩都实现它
type WriteOnlyConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// websocket.TextMessage 的常量值，避免为接口实现方引入依赖
const textMessage = 1

// 进程内单调递增的客户端编号，仅作唯一性标识
var nextClientID int64

// Client 一条客户端连接及其在房间里的身份
type Client struct {
	ID          string
	PlayerName  string
	PlayerIndex int // 引擎座位号，开局前为 -1

	conn    WriteOnlyConn
	writeMu sync.Mutex // gorilla 连接要求写串行

	room *Room
}

func NewClient(conn WriteOnlyConn) *Client {
	return &Client{
		ID:          strconv.FormatInt(atomic.AddInt64(&nextClientID, 1), 10),
		PlayerIndex: -1,
		conn:        conn,
	}
}

// Send 发送一条统一格式消息（type + 数据字段平铺）
func (c *Client) Send(msgType string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["type"] = msgType
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.SendRaw(raw)
}

func (c *Client) SendRaw(raw []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(textMessage, raw)
}

func (c *Client) Close() {
	c.conn.Close()
}

// Room 客户端当前所在房间，未入房时为 nil
func (c *Client) Room() *Room {
	return c.room
}
