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

	"fieldbooking/internal/cache"
	intconfig "fieldbooking/internal/config"
	router "fieldbooking/internal/http"
	"fieldbooking/internal/jobs"
	"fieldbooking/internal/mq"
	"fieldbooking/internal/notify"
	"fieldbooking/internal/services"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("load env: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	var fieldCache services.FieldCache
	if env.RedisAddr != "" {
		fieldCache = cache.NewRedisCache(env.RedisAddr, env.RedisPassword, env.RedisDB, env.FieldCacheTTL)
	}

	var events services.EventPublisher
	if env.AMQPURL != "" {
		pub, err := mq.NewPublisher(env.AMQPURL, env.AMQPExchange)
		if err != nil {
			log.Printf("warning: rabbitmq unavailable, events disabled: %v", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	var notifier services.Notifier
	if env.LineAccessToken != "" {
		notifier = notify.NewLinePusher(env.LineAccessToken)
	}

	// Router (Gin engine)
	r := router.NewRouter(env, fieldCache, notifier, events)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	reaper := jobs.NewReaper(services.BookingService{
		Notifier:   notifier,
		Events:     events,
		Recipients: env.LinePushTo,
		StaleAfter: env.ReaperThreshold,
	}, env.ReaperInterval)
	go reaper.Start(reaperCtx)

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	stopReaper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
