package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret signs sessions when JWT_SECRET is unset outside production.
const devJWTSecret = "supersecretjwtkey"

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string
	PostgresUrl             string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	JWTTTL                  time.Duration
	InviteEmailDomain       string
	ManagementGroupSlug     string
	VAPIDPublicKey          string
	VAPIDPrivateKey         string
	VAPIDSubject            string
	RealtimePGBridge        bool
	MigrateOnStart          bool
	MigrationsURL           string
}

// Load reads the environment, pulling in a .env file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		PostgresUrl:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "preference"),
		JWTSecret:               getEnv("JWT_SECRET", devJWTSecret),
		JWTTTL:                  getDuration("JWT_TTL", 72*time.Hour),
		InviteEmailDomain:       getEnv("INVITE_EMAIL_DOMAIN", "preference.internal"),
		ManagementGroupSlug:     getEnv("MANAGEMENT_GROUP_SLUG", "management"),
		VAPIDPublicKey:          getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:         getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:            getEnv("VAPID_SUBJECT", "mailto:admin@preference.internal"),
		RealtimePGBridge:        getBool("REALTIME_PG_BRIDGE", false),
		MigrateOnStart:          getBool("MIGRATE_ON_START", false),
		MigrationsURL:           getEnv("MIGRATIONS_DATABASE_URL", ""),
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that are only acceptable in development.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}
