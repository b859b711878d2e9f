package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"

	"go-richman/dto"
	"go-richman/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket 每个连接一个读循环，按消息类型分发到房间
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Errorf("❌ WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(conn)
	logger.Log.Infof("🔌 新连接: %s", client.ID)

	defer func() {
		if room := client.Room(); room != nil {
			room.HandleDisconnect(client)
			if room.IsEmpty() {
				// 先关房再摘表：Close 之后迟到的加入会被 AddClient 拒绝
				room.Close()
				DefaultManager.RemoveRoom(room.Code)
			}
		}
		client.Close()
		logger.Log.Infof("🔌 连接断开: %s", client.ID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(raw, &msg); err != nil {
			client.Send("error", map[string]interface{}{"message": "无效消息"})
			continue
		}
		msgType, _ := msg["type"].(string)
		dispatch(client, msgType, msg)
	}
}

func dispatch(client *Client, msgType string, msg map[string]interface{}) {
	switch msgType {
	case "createRoom":
		var p dto.CreateRoomPayload
		if err := decodePayload(msg, &p); err != nil {
			client.Send("error", map[string]interface{}{"message": "无效消息"})
			return
		}
		DefaultManager.CreateRoom(client, p.PlayerName)

	case "joinRoom":
		var p dto.JoinRoomPayload
		if err := decodePayload(msg, &p); err != nil {
			client.Send("error", map[string]interface{}{"message": "无效消息"})
			return
		}
		if room := DefaultManager.JoinRoom(p.RoomCode, client, p.PlayerName); room == nil {
			client.Send("error", map[string]interface{}{"message": "房间不存在或已满"})
		}

	case "selectCharacter":
		var p dto.SelectCharacterPayload
		if err := decodePayload(msg, &p); err != nil {
			client.Send("error", map[string]interface{}{"message": "无效消息"})
			return
		}
		if room := client.Room(); room != nil {
			room.HandleCharacterSelect(client, p.CharacterIndex)
		}

	case "startGame":
		if room := client.Room(); room != nil {
			room.HandleStartGame(client)
		}

	case "action":
		var p dto.ActionPayload
		if err := decodePayload(msg, &p); err != nil {
			client.Send("error", map[string]interface{}{"message": "无效消息"})
			return
		}
		if room := client.Room(); room != nil {
			room.HandleAction(client, p.Action)
		}

	default:
		logger.Log.Debugf("未知消息类型: %s", msgType)
	}
}

// decodePayload 前端传来的数字都是 float64，弱类型解码统一收口
func decodePayload(msg map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(msg)
}
