package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "fleetadmin/internal/config"
	router "fleetadmin/internal/http"
	"fleetadmin/internal/http/handlers"
	"fleetadmin/internal/notify"
	"fleetadmin/internal/repositories"
	"fleetadmin/internal/services"
	"fleetadmin/internal/stream"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	// Change feed: selection state and notifications degrade gracefully
	// when the broker is down, so a failed connect is not fatal.
	feed, err := stream.Connect(env.NATSURL)
	if err != nil {
		log.Printf("warning: change feed unavailable: %v", err)
	}
	defer feed.Close()

	var publisher stream.Publisher
	if feed != nil {
		publisher = feed
	}

	stops := repositories.StopRepository{Feed: publisher}
	origins := &repositories.OriginRepository{}
	trips := services.TripService{
		Stops:            stops,
		Origins:          origins,
		DefaultRatePerKm: env.DefaultRatePerKm,
	}

	notifier := notify.NewNotifier()
	listenCtx, stopListen := context.WithCancel(context.Background())
	defer stopListen()
	if feed != nil {
		go feed.Listen(listenCtx, notifier.Handle)
	}

	handlers.Setup(handlers.Deps{
		Trips:     trips,
		Bulk:      &services.BulkService{Trips: trips},
		Jobs:      repositories.JobRepository{},
		Breakdown: repositories.BreakdownRepository{},
		Drivers:   repositories.DriverRepository{},
		Users:     repositories.UserRepository{},
		Notifier:  notifier,
	})

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopListen()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
