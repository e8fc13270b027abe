package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridparty/gridparty-backend/internal/bus"
	"github.com/gridparty/gridparty-backend/internal/celebration"
	"github.com/gridparty/gridparty-backend/internal/config"
	"github.com/gridparty/gridparty-backend/internal/registry"
	"github.com/gridparty/gridparty-backend/internal/usecase"
	"github.com/gridparty/gridparty-backend/transport/rest"
	"github.com/gridparty/gridparty-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	roomRegistry := registry.New()
	picker := celebration.NewMemePicker(conf.Celebration.TriggerName)

	var relay usecase.Relay = usecase.NoopRelay{}

	var roomBus *bus.RoomBus
	if conf.Redis.IsEnabled() {
		var err error

		roomBus, err = bus.New(ctx, logger, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis bus: %w", err)
		}

		defer func() {
			if err = roomBus.Close(); err != nil {
				log.Error("could not close redis bus", "error", err)
			}
		}()

		relay = roomBus
	}

	roomManager := usecase.NewRoomManager(logger, roomRegistry, picker, relay)
	wsServer := websocket.New(logger, roomManager, roomRegistry)

	// snapshots relayed by peer instances go to local subscribers only
	if roomBus != nil {
		go roomBus.Subscribe(ctx, wsServer.DeliverToRoom)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)

		restHandlers := rest.NewHandlers(conf.PublicURL, roomRegistry)
		if httpErr := rest.Start(ctx, conf.HTTPPort, restHandlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)

		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
