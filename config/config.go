package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"kdsgroup.co.in/hms/pkg/hmsapi"
)

// Settings holds the gateway configuration read from the environment.
type Settings struct {
	Env           string
	Port          string
	HMSBaseURL    string
	DSN           string
	JWTSecret     string
	SessionKey    string
	SessionTTL    time.Duration
	CacheTTL      time.Duration
	UseGCS        bool
	GCSBucket     string
	UploadDir     string
	CatalogueFile string
	CORSOrigins   []string
}

// Load reads .env (if present) and the process environment.
func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}

	cacheTTL, err := duration("CACHE_TTL", "10m")
	if err != nil {
		return Settings{}, err
	}
	sessionTTL, err := duration("SESSION_TTL", "24h")
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Env:           get("APP_ENV", "development"),
		Port:          get("PORT", "8080"),
		HMSBaseURL:    get("HMS_API_BASE_URL", hmsapi.DefaultBaseURL),
		DSN:           os.Getenv("DB_DSN"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionKey:    os.Getenv("SESSION_KEY"),
		SessionTTL:    sessionTTL,
		CacheTTL:      cacheTTL,
		UploadDir:     get("UPLOAD_DIR", "./uploads"),
		GCSBucket:     os.Getenv("GCS_BUCKET"),
		CatalogueFile: os.Getenv("CATALOGUE_FILE"),
		CORSOrigins:   list(os.Getenv("CORS_ORIGINS")),
		// Cloud Run sets K_SERVICE
		UseGCS: os.Getenv("USE_GCS") == "true" ||
			os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
			os.Getenv("K_SERVICE") != "",
	}

	if s.Production() {
		if s.JWTSecret == "" {
			return Settings{}, fmt.Errorf("missing env JWT_SECRET")
		}
		if s.SessionKey == "" {
			return Settings{}, fmt.Errorf("missing env SESSION_KEY")
		}
	}
	if s.JWTSecret == "" {
		s.JWTSecret = "dev-jwt-secret"
	}
	if s.SessionKey == "" {
		s.SessionKey = s.JWTSecret
	}
	return s, nil
}

func (s Settings) Production() bool {
	return s.Env == "production"
}

// HasDatabase is false when DB_DSN is empty; the gateway then keeps
// sessions and snapshots in memory.
func (s Settings) HasDatabase() bool {
	return s.DSN != ""
}

// Connect opens the postgres connection.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("🗄️  database connected")
	return db, nil
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k, def string) (time.Duration, error) {
	v := get(k, def)
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	// bare numbers are seconds
	sec, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", k, v)
	}
	return time.Duration(sec) * time.Second, nil
}

func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
