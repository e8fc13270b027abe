package celebration

import (
	"math/rand/v2"
	"strings"
)

// Picker is the decorative hook consulted after a winning move. The state
// machine never knows what a celebration is, only that one may exist.
type Picker interface {
	Pick(winnerName string) (url string, ok bool)
}

// memeDatabase - the fixed celebratory image list.
var memeDatabase = []string{
	"https://i.imgflip.com/1j2oed.jpg",
	"https://i.imgflip.com/2x2l5.jpg",
	"https://i.imgflip.com/152a0.jpg",
	"https://i.imgflip.com/1b6t.jpg",
	"https://i.imgflip.com/csw6.jpg",
	"https://i.imgflip.com/1og9.jpg",
	"https://i.imgflip.com/2k9v.jpg",
	"https://i.imgflip.com/1bh8.jpg",
	"https://i.imgflip.com/265s.jpg",
	"https://i.imgflip.com/275t.jpg",
}

// MemePicker serves a random meme, but only to winners whose display name
// matches the configured trigger, compared case-insensitively.
type MemePicker struct {
	triggerName string
	memes       []string
}

func NewMemePicker(triggerName string) *MemePicker {
	return &MemePicker{
		triggerName: triggerName,
		memes:       memeDatabase,
	}
}

func (that *MemePicker) Pick(winnerName string) (string, bool) {
	if that.triggerName == "" || !strings.EqualFold(winnerName, that.triggerName) {
		return "", false
	}

	return that.memes[rand.IntN(len(that.memes))], true
}

// NonePicker never celebrates.
type NonePicker struct{}

func (NonePicker) Pick(string) (string, bool) { return "", false }
