package entity

// Player is a participant registered in a room via SET_PLAYER_INFO.
// Symbol is an opaque value chosen by the client - a short glyph or an
// image data URL - the server never interprets it.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
