package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-richman/dto"
	"go-richman/logger"
	"go-richman/repository"
)

// Redis 房间注册表：只存大厅列表需要的元数据，权威对局状态始终在内存里。
// Redis 不可用时这些操作全部退化为 no-op。

func roomInfoKey(code string) string {
	return fmt.Sprintf("room:%s:info", code)
}

func saveRoomInfo(r *Room) {
	if repository.Rdb == nil {
		return
	}
	info := map[string]interface{}{
		"hostName":    r.HostName(),
		"status":      r.State(),
		"playerCount": r.PlayerCount(),
		"maxPlayers":  MaxPlayers,
		"createdAt":   time.Now().UnixMilli(),
	}
	if err := repository.Rdb.HSet(repository.Ctx, roomInfoKey(r.Code), info).Err(); err != nil {
		logger.Log.Warnf("❌ 写入房间注册表失败: %v", err)
	}
}

func deleteRoomInfo(code string) {
	if repository.Rdb == nil {
		return
	}
	// 房间相关 key 统一按前缀清理
	prefix := fmt.Sprintf("room:%s:", code)
	var cursor uint64
	for {
		keys, cur, err := repository.Rdb.Scan(repository.Ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			logger.Log.Warnf("❌ 扫描房间 key 失败: %v", err)
			return
		}
		if len(keys) > 0 {
			if err := repository.Rdb.Del(repository.Ctx, keys...).Err(); err != nil {
				logger.Log.Warnf("❌ 删除房间 key 失败: %v", err)
			}
		}
		cursor = cur
		if cursor == 0 {
			return
		}
	}
}

// archiveGame 对局结束后写一条存档记录
func archiveGame(r *Room) {
	if repository.Rdb == nil {
		return
	}
	engine := r.engine
	if engine == nil {
		return
	}
	record := dto.GameRecord{
		ID:        uuid.New().String(),
		RoomCode:  r.Code,
		Winner:    engine.State.Winner,
		TurnCount: engine.State.TurnCount,
		EndedAt:   time.Now().UnixMilli(),
	}
	for _, p := range engine.State.Players {
		record.Players = append(record.Players, p.Name)
	}
	raw, err := json.Marshal(record)
	if err != nil {
		logger.Log.Warnf("❌ 存档序列化失败: %v", err)
		return
	}
	key := fmt.Sprintf("game:finished:%s", record.ID)
	if err := repository.Rdb.Set(repository.Ctx, key, raw, 0).Err(); err != nil {
		logger.Log.Warnf("❌ 写入对局存档失败: %v", err)
		return
	}
	logger.Log.Infof("✅ 对局 %s 已存档，获胜者座位 %d", r.Code, record.Winner)
}
