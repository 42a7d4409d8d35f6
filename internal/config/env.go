package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ArenaHTTPPort string
	PsqlURL       string
	MongoURL      string
	MongoDBName   string
	RedisURL      string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	ExecutionServiceURL string
	ProblemServiceURL   string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	config := Config{
		ArenaHTTPPort:       getEnv("ARENAHTTPPORT", "3333"),
		PsqlURL:             getEnv("PSQLURL", "host=localhost port=5432 user=admin password=password dbname=codebattle sslmode=disable"),
		MongoURL:            getEnv("MONGOURL", "mongodb://localhost:27017"),
		MongoDBName:         getEnv("MONGODBNAME", "codebattle"),
		RedisURL:            getEnv("REDISURL", "localhost:6379"),
		RedisPassword:       getEnv("REDISPASSWORD", ""),
		RedisDB:             getEnvInt("REDISDB", 0),
		JWTSecret:           getEnv("JWTSECRET", "secrettt"),
		ExecutionServiceURL: getEnv("EXECUTIONSERVICEURL", "http://localhost:7100"),
		ProblemServiceURL:   getEnv("PROBLEMSERVICEURL", "http://localhost:7200"),
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
