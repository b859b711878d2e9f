package dto

// LobbyPlayer 大厅内的玩家条目，随 playerJoined / characterSelected 等消息下发
type LobbyPlayer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CharacterIndex *int   `json:"characterIndex"` // nil = 尚未选角
	IsHost         bool   `json:"isHost"`
}

// RoomInfo Redis 注册表里的房间条目，供大厅列表展示
type RoomInfo struct {
	RoomCode    string `json:"roomCode"`
	HostName    string `json:"hostName"`
	Status      string `json:"status"` // lobby / playing / finished
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	CreatedAt   int64  `json:"createdAt"`
}

// GameRecord 对局结束后的存档
type GameRecord struct {
	ID        string   `json:"id"`
	RoomCode  string   `json:"roomCode"`
	Winner    int      `json:"winner"`
	Players   []string `json:"players"`
	TurnCount int      `json:"turnCount"`
	EndedAt   int64    `json:"endedAt"`
}

// GetRoomList 房间列表响应体
type GetRoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}
