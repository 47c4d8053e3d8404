package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	LogLevel    string
	JWTSecret   string
	CORSOrigin  string
	RedisAddr   string
	AMQPURL     string
	StaticDir   string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if fallback != "" {
		log.Printf("Warning: Environment variable %s not set, using default value: %s\n", key, fallback)
	} else {
		log.Printf("Warning: Environment variable %s not set and no default value provided\n", key)
	}
	return fallback
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("Warning: .env file not found, using environment variables or defaults.")
		} else {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", ":3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   getEnv("JWT_SECRET", "default_secret_change_me"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		AMQPURL:     getEnv("AMQP_URL", ""),
		StaticDir:   getEnv("STATIC_DIR", "./web"),
	}
}
