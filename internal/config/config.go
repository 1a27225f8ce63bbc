package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Labeling LabelingConfig
	Backtest BacktestConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers  []string
	BarTopic string
	RunTopic string
	GroupID  string
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTLSecs  int
}

// LabelingConfig holds the rule file path and the price-comparison epsilon.
// Epsilon is kept as a string so the exact decimal value survives the trip
// through the environment.
type LabelingConfig struct {
	RulesPath string
	Epsilon   string
}

// BacktestConfig holds the default cost parameters in basis points.
type BacktestConfig struct {
	FeeBps      float64
	SlippageBps float64
	Strategy    string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "limituplab"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			BarTopic: getEnv("KAFKA_BAR_TOPIC", "daily-bars"),
			RunTopic: getEnv("KAFKA_RUN_TOPIC", "run-events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "limitup-lab"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTLSecs:  getEnvInt("REDIS_TTL_SECONDS", 300),
		},
		Labeling: LabelingConfig{
			RulesPath: getEnv("LIMIT_RULES_PATH", ""),
			Epsilon:   getEnv("PRICE_EPSILON", "0.01"),
		},
		Backtest: BacktestConfig{
			FeeBps:      getEnvFloat("FEE_BPS", 0),
			SlippageBps: getEnvFloat("SLIPPAGE_BPS", 0),
			Strategy:    getEnv("STRATEGY", "first_limitup_next_close"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
