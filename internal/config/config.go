package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	// OTPTTL is the validity window of an issued passcode.
	OTPTTL time.Duration

	// StoreBackend selects the credential store: "memory", "dynamo" or "redis".
	StoreBackend   string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTable    string
	RedisURL       string

	// SMSProvider selects the delivery channel: "fast2sms", "sns" or "log".
	// An empty Fast2SMS key disables real delivery on the fast2sms provider;
	// the diagnostic issuance path stays usable without it.
	SMSProvider      string
	Fast2SMSAPIKey   string
	Fast2SMSSenderID string
	SNSRegion        string

	FirebaseProjectID      string
	FirebaseClientEmail    string
	FirebasePrivateKeyPath string

	GeocodeBaseURL string

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OTPTTL: time.Duration(getEnvInt("OTP_TTL_SECONDS", 300)) * time.Second,

		StoreBackend:   getEnv("OTP_STORE", "memory"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTable:    getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
		RedisURL:       getEnv("REDIS_URL", ""),

		SMSProvider:      getEnv("SMS_PROVIDER", "fast2sms"),
		Fast2SMSAPIKey:   getEnv("FAST2SMS_API_KEY", ""),
		Fast2SMSSenderID: getEnv("FAST2SMS_SENDER_ID", ""),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),

		FirebaseProjectID:      getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail:    getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKeyPath: getEnv("FIREBASE_PRIVATE_KEY_PATH", "./service_account_key.pem"),

		GeocodeBaseURL: getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether the diagnostic (code-echoing) issuance path
// must be disabled.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
