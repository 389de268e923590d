package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`

	// Remote triage services.
	APIBaseURL  string `mapstructure:"API_BASE_URL"`
	LLMProvider string `mapstructure:"LLM_PROVIDER"`

	// Manual geocoding (OpenStreetMap Nominatim).
	GeocoderURL       string `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string `mapstructure:"GEOCODER_USER_AGENT"`

	// Local store configuration.
	StoreDriver   string        `mapstructure:"STORE_DRIVER"`
	StoreTTL      time.Duration `mapstructure:"STORE_TTL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisStoreDB  int           `mapstructure:"REDIS_STORE_DB"`

	// Browser session token.
	ClientTokenSecret string        `mapstructure:"CLIENT_TOKEN_SECRET"`
	ClientTokenTTL    time.Duration `mapstructure:"CLIENT_TOKEN_TTL"`

	// Triage journey timings.
	GPSTimeout            time.Duration `mapstructure:"GPS_TIMEOUT"`
	QuickActionGPSTimeout time.Duration `mapstructure:"QUICK_ACTION_GPS_TIMEOUT"`
	PrefillWaitTimeout    time.Duration `mapstructure:"PREFILL_WAIT_TIMEOUT"`
	PrefillDelay          time.Duration `mapstructure:"PREFILL_DELAY"`
	AmbulancePromptDelay  time.Duration `mapstructure:"AMBULANCE_PROMPT_DELAY"`
	OrchestratorIdleTTL   time.Duration `mapstructure:"ORCHESTRATOR_IDLE_TTL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")

	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("LLM_PROVIDER", "openai")

	viper.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_USER_AGENT", "healthguide/1.0")

	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("STORE_TTL", "12h")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_STORE_DB", 0)

	viper.SetDefault("CLIENT_TOKEN_SECRET", "")
	viper.SetDefault("CLIENT_TOKEN_TTL", "12h")

	viper.SetDefault("GPS_TIMEOUT", "10s")
	viper.SetDefault("QUICK_ACTION_GPS_TIMEOUT", "15s")
	viper.SetDefault("PREFILL_WAIT_TIMEOUT", "5s")
	viper.SetDefault("PREFILL_DELAY", "500ms")
	viper.SetDefault("AMBULANCE_PROMPT_DELAY", "500ms")
	viper.SetDefault("ORCHESTRATOR_IDLE_TTL", "30m")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
