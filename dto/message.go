package dto

// 客户端 -> 服务端消息载荷。外层统一为 {"type": "...", ...}，
// 具体字段用 mapstructure 从原始 map 解出

type CreateRoomPayload struct {
	PlayerName string `mapstructure:"playerName"`
}

type JoinRoomPayload struct {
	RoomCode   string `mapstructure:"roomCode"`
	PlayerName string `mapstructure:"playerName"`
}

type SelectCharacterPayload struct {
	CharacterIndex int `mapstructure:"characterIndex"`
}

type ActionPayload struct {
	Action string `mapstructure:"action"`
}
