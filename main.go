package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/pokerhall/landlord-server/pkg"
)

func main() {
	config, err := pkg.LoadConfig("")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	if err := config.Logging.Apply(); err != nil {
		log.Fatal("Failed to configure logging: ", err)
	}

	server := pkg.NewServer(config)

	gameRouter := mux.NewRouter()
	gameRouter.HandleFunc("/api/v1/health", server.HealthHandler)
	gameRouter.HandleFunc("/game/{userId}", server.SocketHandler)

	gameServer := &http.Server{
		Addr: config.Server.Addr,
		Handler: promhttp.InstrumentHandlerInFlight(pkg.GameServerInFlightGauge,
			promhttp.InstrumentHandlerCounter(pkg.GameServerRequestsCounter,
				gameRouter)),
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    config.Server.MetricsAddr,
		Handler: metricsRouter,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting game server on ", config.Server.Addr, "...")
	go func() {
		err := gameServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Game server failed: ", err)
		}
	}()

	log.Info("Starting metrics server on ", config.Server.MetricsAddr, "...")
	go func() {
		err := metricsServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Metrics server failed: ", err)
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down game server...")
	if err := gameServer.Shutdown(ctx); err != nil {
		log.Fatal("Game server shutdown failed: ", err)
	}

	log.Info("Shutting down metrics server...")
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Fatal("Metrics server shutdown failed: ", err)
	}
}
