package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port       string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	JWTKey     string
	SaltRound  int

	AdminBasicUser string
	AdminBasicPass string

	YahooBaseURL      string
	PolygonApiKey     string
	FmpApiKey         string
	FmpBaseURL        string
	FredApiKey        string
	FredBaseURL       string
	OpenRouterApiKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	RedisURL         string
	CacheTTLQuote    time.Duration
	CacheTTLSearch   time.Duration
	CacheTTLProfile  time.Duration
	CacheTTLMacro    time.Duration
	CacheTTLAnalysis time.Duration

	RateLimitPerMin     int
	UpstreamLimitPerMin int

	SignupCredits      int
	AnalysisCreditCost int

	EmailSender    string
	EmailPassword  string // SMTP app password
	SendGridApiKey string
	AdminEmail     string

	LogLevel string
	LogFile  string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:       getEnv("PORT", "3000"),
		DBHost:     getEnv("DB_HOST", ""),
		DBUser:     getEnv("DB_USER", "finboard"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "finboard.db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		JWTKey:     getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound:  getEnvInt("SALT_ROUND", 10),

		AdminBasicUser: getEnv("ADMIN_BASIC_USER", ""),
		AdminBasicPass: getEnv("ADMIN_BASIC_PASS", ""),

		YahooBaseURL:      getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		PolygonApiKey:     getEnv("POLYGON_API_KEY", ""),
		FmpApiKey:         getEnv("FMP_API_KEY", ""),
		FmpBaseURL:        getEnv("FMP_BASE_URL", "https://financialmodelingprep.com"),
		FredApiKey:        getEnv("FRED_API_KEY", ""),
		FredBaseURL:       getEnv("FRED_BASE_URL", "https://api.stlouisfed.org"),
		OpenRouterApiKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),

		RedisURL:         getEnv("REDIS_URL", ""),
		CacheTTLQuote:    getEnvDuration("CACHE_TTL_QUOTE", 60*time.Second),
		CacheTTLSearch:   getEnvDuration("CACHE_TTL_SEARCH", 300*time.Second),
		CacheTTLProfile:  getEnvDuration("CACHE_TTL_PROFILE", 3600*time.Second),
		CacheTTLMacro:    getEnvDuration("CACHE_TTL_MACRO", 21600*time.Second),
		CacheTTLAnalysis: getEnvDuration("CACHE_TTL_ANALYSIS", 900*time.Second),

		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MIN", 120),
		UpstreamLimitPerMin: getEnvInt("UPSTREAM_LIMIT_PER_MIN", 30),

		SignupCredits:      getEnvInt("SIGNUP_CREDITS", 25),
		AnalysisCreditCost: getEnvInt("ANALYSIS_CREDIT_COST", 5),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AdminBasicUser == "" {
		log.Println("Warning: ADMIN_BASIC_USER not set. Admin API accepts admin JWTs only.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration reads an environment variable holding a number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to seconds: %v", key, err)
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
