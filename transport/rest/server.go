package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Start - serves the liveness endpoints and the room QR handler.
func Start(ctx context.Context, port string, handlers Handlers) error {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/ping", handlers.PingHandler)
	router.HandlerFunc(http.MethodGet, "/healthz", handlers.HealthHandler)
	router.GET("/rooms/:code/qr", handlers.RoomQRHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
