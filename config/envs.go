package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultMazeSize = 16
	maxMazeSize     = 50
)

// Config holds the application's configuration values.
type Config struct {
	HostIP   string // Host IP for the servers
	RESTPort int    // Port for the REST API
	TCPPort  int    // Port for the line protocol listener
	MazeSize int    // Side length of the maze

	GinMode   string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret string // Secret key for JWT signing
	JWTIssuer string // Issuer claim for JWTs

	OperatorUsername string // Account allowed to restart the maze
	OperatorPassword string // Plain password of the operator, hashed at startup

	RedisAddr     string // Address of the leaderboard Redis, empty disables it
	RedisPassword string // Password for Redis
	RedisDB       int    // Redis database index

	DBHost     string // Hostname or IP address for the round history database, empty disables it
	DBPort     int    // Port number for the database
	DBUser     string // Username for the database
	DBPassword string // Password for the database
	DBName     string // Name of the database
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	c := Config{
		HostIP:   getEnvWithDefault("HOST_IP", "127.0.0.1"),
		RESTPort: getEnvAsIntWithDefault("REST_PORT", 8081),
		TCPPort:  getEnvAsIntWithDefault("TCP_PORT", 8080),
		MazeSize: getEnvAsIntWithDefault("MAZE_SIZE", defaultMazeSize),

		GinMode:   getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret: mustGetEnv("JWT_SECRET"),
		JWTIssuer: getEnvWithDefault("JWT_ISSUER", "maze-craze"),

		OperatorUsername: getEnvWithDefault("OPERATOR_USERNAME", "operator"),
		OperatorPassword: mustGetEnv("OPERATOR_PASSWORD"),

		RedisAddr:     getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsIntWithDefault("REDIS_DB", 0),

		DBHost:     getEnvWithDefault("DB_HOST", ""),
		DBPort:     getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:     getEnvWithDefault("DB_USER", ""),
		DBPassword: getEnvWithDefault("DB_PASS", ""),
		DBName:     getEnvWithDefault("DB_NAME", "maze_craze"),
	}

	if c.MazeSize < 1 || c.MazeSize > maxMazeSize {
		log.Fatalf("[APP] [FATAL] MAZE_SIZE must be between 1 and %d, got %d", maxMazeSize, c.MazeSize)
	}

	return c
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s is not set", ColorGreen, ColorReset, LogErrorColor, ColorReset, key)
	}
	return value
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer,
// falling back to defaultValue when unset. A value that cannot be parsed is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
