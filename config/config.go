package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the typed view of the environment handed to constructors.
type Config struct {
	Port          string
	AppEnv        string
	DBURL         string
	JWTSecret     string
	CORSOrigin    string
	LogLevel      string
	LogFile       string
	UploadDir     string
	PublicBaseURL string
	DefaultLang   string
	AppURL        string

	KakaoClientID         string
	KakaoClientSecret     string
	KakaoRedirectURL      string
	KakaoFrontendRedirect string
	KakaoRestAPIKey       string

	UnsplashAccessKey string

	StripeSecretKey     string
	StripeWebhookSecret string

	SchedulerIntervalSeconds int
	NotifyWorkers            int
}

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	KAKAO_CLIENT_ID         string
	KAKAO_CLIENT_SECRET     string
	KAKAO_REDIRECT_URL      string
	KAKAO_FRONTEND_REDIRECT string

	current *Config
)

// LoadEnv reads .env (if any) and the process environment. DB_URL and
// JWT_SECRET abort the process when missing.
func LoadEnv() *Config {
	return LoadEnvFor("DB_URL", "JWT_SECRET")
}

// LoadEnvFor is LoadEnv with an explicit list of required keys.
func LoadEnvFor(required ...string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	cfg := Load()
	for _, key := range required {
		if strings.TrimSpace(cfg.value(key)) == "" {
			log.Fatalf("Missing required environment variable: %s", key)
		}
	}
	return cfg
}

func (c *Config) value(key string) string {
	switch key {
	case "DB_URL":
		return c.DBURL
	case "JWT_SECRET":
		return c.JWTSecret
	case "STRIPE_SECRET_KEY":
		return c.StripeSecretKey
	case "UPLOAD_DIR":
		return c.UploadDir
	default:
		return ""
	}
}

// Load builds a Config from viper without enforcing required keys.
func Load() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("DEFAULT_LANG", "ko")
	v.SetDefault("APP_URL", "http://localhost:5173")
	v.SetDefault("SCHEDULER_INTERVAL_SECONDS", 300)
	v.SetDefault("NOTIFY_WORKERS", 8)

	cfg := &Config{
		Port:          v.GetString("PORT"),
		AppEnv:        v.GetString("APP_ENV"),
		DBURL:         v.GetString("DB_URL"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		CORSOrigin:    v.GetString("CORS_ORIGIN"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFile:       v.GetString("LOG_FILE"),
		UploadDir:     v.GetString("UPLOAD_DIR"),
		PublicBaseURL: strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		DefaultLang:   v.GetString("DEFAULT_LANG"),
		AppURL:        strings.TrimRight(v.GetString("APP_URL"), "/"),

		KakaoClientID:         v.GetString("KAKAO_CLIENT_ID"),
		KakaoClientSecret:     v.GetString("KAKAO_CLIENT_SECRET"),
		KakaoRedirectURL:      v.GetString("KAKAO_REDIRECT_URL"),
		KakaoFrontendRedirect: v.GetString("KAKAO_FRONTEND_REDIRECT"),
		KakaoRestAPIKey:       v.GetString("KAKAO_REST_API_KEY"),

		UnsplashAccessKey: v.GetString("UNSPLASH_ACCESS_KEY"),

		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),

		SchedulerIntervalSeconds: v.GetInt("SCHEDULER_INTERVAL_SECONDS"),
		NotifyWorkers:            v.GetInt("NOTIFY_WORKERS"),
	}

	if cfg.SchedulerIntervalSeconds <= 0 {
		cfg.SchedulerIntervalSeconds = 300
	}
	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = 8
	}

	Set(cfg)
	return cfg
}

// Set installs cfg as the process-wide configuration.
func Set(cfg *Config) {
	current = cfg

	PORT = cfg.Port
	DB_URL = cfg.DBURL
	JWT_SECRET = cfg.JWTSecret

	KAKAO_CLIENT_ID = cfg.KakaoClientID
	KAKAO_CLIENT_SECRET = cfg.KakaoClientSecret
	KAKAO_REDIRECT_URL = cfg.KakaoRedirectURL
	KAKAO_FRONTEND_REDIRECT = cfg.KakaoFrontendRedirect
}

// Current returns the last loaded configuration, loading defaults on first use.
func Current() *Config {
	if current == nil {
		return Load()
	}
	return current
}
