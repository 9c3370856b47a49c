package config

import (
	"os"
	"strconv"
	"time"
)

type Storage struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	BucketName   string
	SignedURLTTL time.Duration
}

type Razorpay struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

type Notifications struct {
	EmailWebhookURL          string
	SMSWebhookURL            string
	WhatsappWebhookURL       string
	WhatsappTemplateName     string
	WhatsappTemplateLanguage string
}

type Config struct {
	Port              string
	PostgresURI       string
	RedisURI          string
	FrontendURL       string
	SupabaseJWTSecret string
	Storage           Storage
	Razorpay          Razorpay
	Notifications     Notifications
	ReconcileSchedule string
	BodyLimitMB       int
	LogFormat         string
	LogLevel          string
	AutoMigrate       bool
}

func LoadConfig() *Config {
	return &Config{
		Port:              getEnv("PORT", "3000"),
		PostgresURI:       getEnv("POSTGRES_URI", ""),
		RedisURI:          getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		Storage: Storage{
			Endpoint:     getEnv("STORAGE_ENDPOINT", ""),
			Region:       getEnv("STORAGE_REGION", "auto"),
			AccessKey:    getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:    getEnv("STORAGE_SECRET_KEY", ""),
			BucketName:   getEnv("STORAGE_BUCKET", "property-media"),
			SignedURLTTL: getEnvDuration("SIGNED_URL_TTL", time.Hour),
		},
		Razorpay: Razorpay{
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		},
		Notifications: Notifications{
			EmailWebhookURL:          getEnv("EMAIL_WEBHOOK_URL", ""),
			SMSWebhookURL:            getEnv("SMS_WEBHOOK_URL", ""),
			WhatsappWebhookURL:       getEnv("WHATSAPP_WEBHOOK_URL", ""),
			WhatsappTemplateName:     getEnv("WHATSAPP_TEMPLATE_NAME", ""),
			WhatsappTemplateLanguage: getEnv("WHATSAPP_TEMPLATE_LANGUAGE", "en"),
		},
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 15m"),
		BodyLimitMB:       getEnvInt("BODY_LIMIT_MB", 50),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AutoMigrate:       getEnvBool("AUTO_MIGRATE", false),
	}
}

// PaymentsEnabled reports whether both Razorpay API keys are configured.
func (c *Config) PaymentsEnabled() bool {
	return c.Razorpay.KeyID != "" && c.Razorpay.KeySecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
