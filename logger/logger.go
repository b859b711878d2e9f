package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log 全局日志器，Init 之后可用
var Log *zap.SugaredLogger

func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	Log = l.Sugar()
}

// 未 Init 时（如单元测试）退化为 no-op，避免空指针
func init() {
	Log = zap.NewNop().Sugar()
}
