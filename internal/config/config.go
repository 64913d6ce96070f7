package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// Hosted checkout provider
	StripeSecretKey     string
	StripeCallbackToken string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	// Payment session store backend: "memory" (default) or "redis"
	SessionStore string
	RedisURL     string

	JWTSecret string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeCallbackToken: os.Getenv("STRIPE_CALLBACK_TOKEN"),
		CheckoutSuccessURL:  os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:   os.Getenv("CHECKOUT_CANCEL_URL"),

		SessionStore: os.Getenv("SESSION_STORE"),
		RedisURL:     os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.SessionStore == "" {
		cfg.SessionStore = "memory"
	}

	return cfg
}
