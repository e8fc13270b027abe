package rest

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/gridparty/gridparty-backend/internal/entity"
)

// qrSize - mobile-friendly PNG edge length.
const qrSize = 320

type roomLookup interface {
	GetRoom(code string) (*entity.Room, error)
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, r *http.Request)
	HealthHandler(w http.ResponseWriter, r *http.Request)
	RoomQRHandler(w http.ResponseWriter, r *http.Request, params httprouter.Params)
}

type handlers struct {
	publicURL string
	rooms     roomLookup
}

func NewHandlers(publicURL string, rooms roomLookup) Handlers {
	return &handlers{
		publicURL: publicURL,
		rooms:     rooms,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// RoomQRHandler - renders a PNG QR code pointing a phone at the join URL of
// a live room. Unknown or expired codes answer 404.
func (that *handlers) RoomQRHandler(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	room, err := that.rooms.GetRoom(params.ByName("code"))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	joinURL := that.publicURL + "/?room=" + room.Code

	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
