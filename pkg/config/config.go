package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	JWTSecret      string
	RequestTimeout time.Duration

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string
	DBLog      bool

	// DayTimezone is the single zone used for every calendar-day boundary.
	DayTimezone string

	// Food catalog (USDA FoodData Central)
	FDCAPIKey  string
	FDCBaseURL string

	// Nutrition estimator
	EstimatorURL     string
	EstimatorTimeout time.Duration

	// AWS
	AWSRegion          string
	PhotoBucket        string
	RekognitionEnabled bool

	// Pub/Sub
	GoogleProjectID   string
	IntakeTopic       string
	GoogleCredentials string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "dietlog"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "data/dietlog.db"),
		DBLog:      getBool("DB_LOG", false),

		DayTimezone: getEnv("DAY_TIMEZONE", "Asia/Kolkata"),

		FDCAPIKey:  getEnv("FDC_API_KEY", "DEMO_KEY"),
		FDCBaseURL: getEnv("FDC_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),

		EstimatorURL:     getEnv("ESTIMATOR_URL", "http://localhost:8501"),
		EstimatorTimeout: getDuration("ESTIMATOR_TIMEOUT", 10*time.Second),

		AWSRegion:          getEnv("AWS_REGION", ""),
		PhotoBucket:        getEnv("PHOTO_BUCKET", ""),
		RekognitionEnabled: getBool("REKOGNITION_ENABLED", false),

		GoogleProjectID:   getEnv("GOOGLE_PROJECT_ID", ""),
		IntakeTopic:       getEnv("INTAKE_TOPIC", "intake-recorded"),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", ""),
	}
}

// Location resolves DayTimezone. An unknown zone name is a startup error.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DAY_TIMEZONE %q: %w", c.DayTimezone, err)
	}
	return loc, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
