package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/joho/godotenv"

	apperrors "coursehub/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port           string
	Env            string
	LogLevel       string
	CORSOrigins    []string
	RequestTimeout time.Duration

	// Cassandra
	CassandraHosts             []string
	CassandraPort              int
	CassandraKeyspace          string
	CassandraReplicationFactor int
	CassandraWriteConsistency  string // consistency for every forum write
	CassandraReadConsistency   string // consistency for every forum read
	CassandraTimeout           time.Duration

	// Neo4j
	Neo4jURI         string
	Neo4jUser        string
	Neo4jPassword    string
	Neo4jDatabase    string
	Neo4jMaxPoolSize int

	// Redis (optional recommendation cache)
	RedisAddr         string
	RecommendCacheTTL time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", ""),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"*"}),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		CassandraHosts:             getEnvList("CASSANDRA_HOSTS", []string{getEnv("CASSANDRA_HOST", "cassandra")}),
		CassandraPort:              getEnvInt("CASSANDRA_PORT", 9042),
		CassandraKeyspace:          getEnv("CASSANDRA_KEYSPACE", "foros"),
		CassandraReplicationFactor: getEnvInt("CASSANDRA_REPLICATION_FACTOR", 1),
		CassandraWriteConsistency:  getEnv("CASSANDRA_WRITE_CONSISTENCY", "ONE"),
		CassandraReadConsistency:   getEnv("CASSANDRA_READ_CONSISTENCY", "LOCAL_QUORUM"),
		CassandraTimeout:           getEnvDuration("CASSANDRA_TIMEOUT", 5*time.Second),

		Neo4jURI:         getEnv("NEO4J_URI", "bolt://neo4j:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", "admin"),
		Neo4jDatabase:    getEnv("NEO4J_DATABASE", ""),
		Neo4jMaxPoolSize: getEnvInt("NEO4J_MAX_POOL_SIZE", 50),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RecommendCacheTTL: getEnvDuration("RECOMMEND_CACHE_TTL", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if len(c.CassandraHosts) == 0 {
		return apperrors.NewConfigMissingRequired("CASSANDRA_HOSTS")
	}
	if c.CassandraKeyspace == "" {
		return apperrors.NewConfigMissingRequired("CASSANDRA_KEYSPACE")
	}
	if c.CassandraReplicationFactor < 1 {
		return apperrors.NewConfigValidationFailed("CASSANDRA_REPLICATION_FACTOR", "must be at least 1")
	}
	if _, err := c.WriteConsistency(); err != nil {
		return apperrors.NewConfigValidationFailed("CASSANDRA_WRITE_CONSISTENCY", err.Error())
	}
	if _, err := c.ReadConsistency(); err != nil {
		return apperrors.NewConfigValidationFailed("CASSANDRA_READ_CONSISTENCY", err.Error())
	}
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.RecommendCacheTTL < 0 {
		return apperrors.NewConfigValidationFailed("RECOMMEND_CACHE_TTL", "must not be negative")
	}
	// Redis is optional; the recommendation cache stays off without it
	return nil
}

// WriteConsistency parses the configured forum write consistency level
func (c *Config) WriteConsistency() (gocql.Consistency, error) {
	return gocql.ParseConsistencyWrapper(strings.ToUpper(c.CassandraWriteConsistency))
}

// ReadConsistency parses the configured forum read consistency level
func (c *Config) ReadConsistency() (gocql.Consistency, error) {
	return gocql.ParseConsistencyWrapper(strings.ToUpper(c.CassandraReadConsistency))
}

// CacheEnabled returns true when recommendation results should be cached in Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.RecommendCacheTTL > 0
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
