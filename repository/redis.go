// redis.go
package repository

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"

	"go-richman/logger"
)

var (
	Rdb *redis.Client
	Ctx = context.Background()
)

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	Rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := Rdb.Ping(Ctx).Result(); err != nil {
		// 注册表和对局存档是辅助功能，连不上 Redis 不阻止开服
		logger.Log.Warnf("❌ Redis 连接失败，房间注册表不可用: %v", err)
		Rdb = nil
		return
	}
	logger.Log.Info("✅ Redis 连接成功")
}
