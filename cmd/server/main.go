package main

import (
	"log"
	"net/http"

	"tryout-be/internal/api"
	"tryout-be/internal/assessment"
	"tryout-be/internal/auth"
	"tryout-be/internal/club"
	"tryout-be/internal/config"
	"tryout-be/internal/db"
	"tryout-be/internal/logger"
	"tryout-be/internal/middleware"
	"tryout-be/internal/payment"
	"tryout-be/internal/payment/webhook"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	assessments := assessment.NewRepository(database)
	clubs := club.NewRepository(database)

	authSvc := auth.NewService(auth.NewRepository(database))

	var store payment.Store
	if cfg.SessionStore == "redis" {
		redisStore, err := payment.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = payment.NewMemoryStore()
	}

	provider := payment.NewStripeProvider(cfg.StripeSecretKey)
	strategies := payment.DefaultStrategies(
		provider,
		assessments,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
		"usd",
	)

	paymentSvc := payment.NewService(
		store,
		assessments,
		clubs,
		strategies,
		payment.NewStatusSync(assessments),
	)

	handler := api.NewHandler(paymentSvc, authSvc)
	webhookHandler := webhook.NewHandler(paymentSvc, cfg.StripeCallbackToken)

	mux := handler.Routes()
	mux.Handle("POST /webhook/checkout", webhookHandler)

	chain := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)

	log.Printf("payment server listening on :%s", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, chain))
}
