package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Schedule  ScheduleConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// AMQPConfig is optional: an empty URL disables the event publisher.
type AMQPConfig struct {
	URL string
}

type ScheduleConfig struct {
	// SessionBreak is the cleaning gap between sessions in the same hall.
	SessionBreak time.Duration
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	amqpCfg := AMQPConfig{URL: os.Getenv("AMQP_URL")}

	sessionBreakStr := os.Getenv("SESSION_BREAK_SECONDS")
	if sessionBreakStr == "" {
		sessionBreakStr = "900"
	}

	sessionBreakSecs, err := strconv.Atoi(sessionBreakStr)
	if err != nil || sessionBreakSecs < 0 {
		return nil, fmt.Errorf("%s: invalid SESSION_BREAK_SECONDS", op)
	}

	scheduleCfg := ScheduleConfig{
		SessionBreak: time.Duration(sessionBreakSecs) * time.Second,
	}

	rlLimitStr := os.Getenv("RATE_LIMIT")
	if rlLimitStr == "" {
		rlLimitStr = "30"
	}

	rlLimit, err := strconv.Atoi(rlLimitStr)
	if err != nil || rlLimit <= 0 {
		return nil, fmt.Errorf("%s: invalid RATE_LIMIT", op)
	}

	rateLimitCfg := RateLimitConfig{
		Limit:  rlLimit,
		Window: 1 * time.Minute,
	}

	return &Config{
		Server:    serverCfg,
		Postgres:  postgresCfg,
		Redis:     redisCfg,
		AMQP:      amqpCfg,
		Schedule:  scheduleCfg,
		RateLimit: rateLimitCfg,
	}, nil
}
