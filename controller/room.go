package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-richman/service"
)

func GetRoomList(c *gin.Context) {
	data, err := service.GetRoomList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "获取房间列表成功",
		"data":        data,
	})
}

func GetRoomInfo(c *gin.Context) {
	code := c.Param("roomCode")
	data, err := service.GetRoomInfo(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "获取房间信息成功",
		"data":        data,
	})
}
