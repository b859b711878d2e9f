package router

import (
	"github.com/gin-gonic/gin"

	"go-richman/controller"
	"go-richman/ws"
)

func InitRouter(r *gin.Engine) {
	// 大厅只读接口，建房和加入都走 WebSocket
	api := r.Group("/room")
	{
		api.GET("/list", controller.GetRoomList)
		api.GET("/:roomCode", controller.GetRoomInfo)
	}

	// WebSocket 路由
	r.GET("/ws", ws.HandleWebSocket)
}
