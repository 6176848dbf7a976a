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
	JWTSecret  string

	// PayFast merchant credentials. Empty values leave the gateway in
	// sandbox mode.
	PayfastMerchantID  string
	PayfastMerchantKey string
	PayfastPassphrase  string

	// Pricing overrides. Empty values fall back to the documented
	// defaults in internal/pricing.
	FreeShippingThreshold string
	FlatShippingRate      string
	TaxRate               string
	TaxRounding           string
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
		JWTSecret:  os.Getenv("JWT_SECRET"),

		PayfastMerchantID:  os.Getenv("PAYFAST_MERCHANT_ID"),
		PayfastMerchantKey: os.Getenv("PAYFAST_MERCHANT_KEY"),
		PayfastPassphrase:  os.Getenv("PAYFAST_PASSPHRASE"),

		FreeShippingThreshold: os.Getenv("PRICING_FREE_SHIPPING_THRESHOLD"),
		FlatShippingRate:      os.Getenv("PRICING_FLAT_SHIPPING_RATE"),
		TaxRate:               os.Getenv("PRICING_TAX_RATE"),
		TaxRounding:           os.Getenv("PRICING_TAX_ROUNDING"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
