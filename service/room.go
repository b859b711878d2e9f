package service

import (
	"fmt"
	"strconv"

	"go-richman/dto"
	"go-richman/repository"
	"go-richman/ws"
)

// GetRoomList 大厅房间列表。以内存房间表为准，Redis 注册表只补充创建时间
func GetRoomList() (dto.GetRoomList, error) {
	result := dto.GetRoomList{Rooms: []dto.RoomInfo{}}

	for _, room := range ws.DefaultManager.List() {
		info := dto.RoomInfo{
			RoomCode:    room.Code,
			HostName:    room.HostName(),
			Status:      room.State(),
			PlayerCount: room.PlayerCount(),
			MaxPlayers:  ws.MaxPlayers,
		}
		if repository.Rdb != nil {
			fields, err := repository.Rdb.HGetAll(repository.Ctx, fmt.Sprintf("room:%s:info", room.Code)).Result()
			if err == nil {
				if v, ok := fields["createdAt"]; ok {
					info.CreatedAt, _ = strconv.ParseInt(v, 10, 64)
				}
			}
		}
		result.Rooms = append(result.Rooms, info)
	}
	return result, nil
}

// GetRoomInfo 单个房间的注册表条目
func GetRoomInfo(code string) (dto.RoomInfo, error) {
	room := ws.DefaultManager.Get(code)
	if room == nil {
		return dto.RoomInfo{}, fmt.Errorf("房间不存在: %s", code)
	}
	info := dto.RoomInfo{
		RoomCode:    room.Code,
		HostName:    room.HostName(),
		Status:      room.State(),
		PlayerCount: room.PlayerCount(),
		MaxPlayers:  ws.MaxPlayers,
	}
	if repository.Rdb != nil {
		fields, err := repository.Rdb.HGetAll(repository.Ctx, fmt.Sprintf("room:%s:info", room.Code)).Result()
		if err == nil {
			if v, ok := fields["createdAt"]; ok {
				info.CreatedAt, _ = strconv.ParseInt(v, 10, 64)
			}
		}
	}
	return info, nil
}
