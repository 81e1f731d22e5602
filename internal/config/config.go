package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field maps to an
// environment variable.  Strings for identifiers and secrets, ints for
// durations and costs, a float for the simulated payment success rate.
type Config struct {
	Env                string  // application environment (e.g. "dev", "prod")
	Port               string  // HTTP port to listen on
	DBUser             string  // database username
	DBPass             string  // database password (optional)
	DBHost             string  // database host address
	DBPort             string  // database port number
	DBName             string  // database name
	JWTSecret          string  // secret used to sign access tokens
	AccessTTLMin       int     // access token time-to-live in minutes
	BcryptCost         int     // bcrypt cost for password hashing
	CatalogPath        string  // path to the static car catalog JSON file
	PaymentSuccessRate float64 // probability a simulated payment succeeds
	PaymentDelayMS     int     // artificial payment latency in milliseconds
}

// Load reads configuration from environment variables.  Required
// variables are enforced by must() and missing values cause the
// program to exit with a fatal log message; demo tuning knobs fall
// back to defaults.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"),
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		JWTSecret:          must("JWT_SECRET"),
		AccessTTLMin:       mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:         mustInt("BCRYPT_COST"),
		CatalogPath:        getenv("CATALOG_PATH", "data/cars.json"),
		PaymentSuccessRate: envFloat("PAYMENT_SUCCESS_RATE", 0.85),
		PaymentDelayMS:     envInt("PAYMENT_DELAY_MS", 2000),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
		return f
	}
	return def
}
