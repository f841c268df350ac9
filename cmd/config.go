package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/pkg/errs"
)

// Config is read from the environment (optionally seeded from .env).
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	RedisAddr  string
	RedisDB    int

	// DemandMaxAge is how long a demand record is served before recomputation.
	DemandMaxAge time.Duration
	// DemandRefreshTimeout bounds one shared recomputation of a bucket.
	DemandRefreshTimeout time.Duration
	// DemandRadiusMeters is the supply/demand search radius around a bucket.
	DemandRadiusMeters float64
	// RefreshSchedule is the six-field cron schedule of the hot location refresh.
	RefreshSchedule string
	HotLocations    []kernel.Location
	TierCacheTTL    time.Duration
	LogLevel        string
}

// LoadConfig builds a Config from getenv, usually os.Getenv.
// Unset optional values fall back to their defaults; malformed ones are errors.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPPort:        withDefault(getenv("HTTP_PORT"), "8080"),
		DBHost:          withDefault(getenv("DB_HOST"), "localhost"),
		DBPort:          withDefault(getenv("DB_PORT"), "5432"),
		DBUser:          getenv("DB_USER"),
		DBPassword:      getenv("DB_PASSWORD"),
		DBName:          getenv("DB_NAME"),
		DBSslMode:       withDefault(getenv("DB_SSLMODE"), "disable"),
		RedisAddr:       withDefault(getenv("REDIS_ADDR"), "localhost:6379"),
		RefreshSchedule: getenv("DEMAND_REFRESH_SCHEDULE"),
		LogLevel:        withDefault(getenv("LOG_LEVEL"), "info"),
	}

	var err error
	if cfg.RedisDB, err = intVar(getenv, "REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	maxAgeMinutes, err := intVar(getenv, "DEMAND_MAX_AGE_MINUTES", 15)
	if err != nil {
		return Config{}, err
	}
	cfg.DemandMaxAge = time.Duration(maxAgeMinutes) * time.Minute

	timeoutSeconds, err := intVar(getenv, "DEMAND_REFRESH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.DemandRefreshTimeout = time.Duration(timeoutSeconds) * time.Second

	if cfg.DemandRadiusMeters, err = floatVar(getenv, "DEMAND_RADIUS_METERS", 20000); err != nil {
		return Config{}, err
	}

	ttlSeconds, err := intVar(getenv, "TIER_CACHE_TTL_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.TierCacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.HotLocations, err = ParseLocations(getenv("DEMAND_HOT_LOCATIONS")); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// ParseLocations parses "lon,lat;lon,lat" into locations. Blank input yields none.
func ParseLocations(s string) ([]kernel.Location, error) {
	var locs []kernel.Location
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, errs.NewValueIsInvalidErrorWithCause("hot location",
				fmt.Errorf("%q is not a lon,lat pair", pair))
		}
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if lonErr != nil || latErr != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("hot location",
				fmt.Errorf("%q is not a lon,lat pair", pair))
		}

		loc, err := kernel.NewLocation(lon, lat)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a non-negative integer", v))
	}
	return n, nil
}

func floatVar(getenv func(string) string, key string, def float64) (float64, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a positive number", v))
	}
	return f, nil
}
