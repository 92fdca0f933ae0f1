// Package config loads the service configuration from environment variables, optionally seeded from a .env file
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/limaJavier/examseating/pkg/model"
	"github.com/limaJavier/examseating/pkg/sat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     string
	LogLevel logrus.Level

	Solver           string
	SolverConfigPath string // JSON file mapping external engine names to executables; empty keeps sat.ConfigPath
	Timeout          time.Duration
	Workers          int
	SeparationCap    int
	TightLinking     bool
	MatchingLimit    int // Zero disables the eligibility matching check

	DB    DBConfig
	Redis RedisConfig

	AMQPURL string // Empty disables event publishing
}

// DBConfig holds the MySQL connection settings. An empty Host disables persistence
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// RedisConfig holds the result cache settings. An empty Addr disables caching
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Load reads the given .env files (missing files are ignored, variables already set win) and then the environment
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "cannot load %v", file)
		}
	}

	reader := &envReader{}
	config := Config{
		Port:             getenv("SEATING_PORT", "8080"),
		Solver:           strings.ToLower(getenv("SEATING_SOLVER", "gini")),
		SolverConfigPath: os.Getenv("SEATING_SOLVER_CONFIG"),
		Timeout:          time.Duration(reader.intVar("SEATING_TIMEOUT_SECONDS", int(sat.DefaultTimeout/time.Second))) * time.Second,
		Workers:          reader.intVar("SEATING_WORKERS", sat.DefaultWorkers),
		SeparationCap:    reader.intVar("SEATING_SEPARATION_CAP", model.DefaultSeparationCap),
		TightLinking:     reader.boolVar("SEATING_TIGHT_LINKING", false),
		MatchingLimit:    reader.intVar("SEATING_MATCHING_LIMIT", 0),
		DB: DBConfig{
			User: getenv("DB_USER", "root"),
			Pass: os.Getenv("DB_PASS"),
			Host: os.Getenv("DB_HOST"),
			Port: getenv("DB_PORT", "3306"),
			Name: getenv("DB_NAME", "seating"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       reader.intVar("REDIS_DB", 0),
			TTL:      reader.durationVar("CACHE_TTL", 10*time.Minute),
			Prefix:   getenv("CACHE_PREFIX", "seating"),
		},
		AMQPURL: os.Getenv("RABBITMQ_URL"),
	}

	level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		reader.errs = append(reader.errs, err.Error())
	}
	config.LogLevel = level

	if len(reader.errs) > 0 {
		return Config{}, errors.Errorf("invalid configuration: %v", strings.Join(reader.errs, "; "))
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (config Config) Validate() error {
	if _, err := sat.NewSolver(config.Solver); err != nil {
		return err
	}
	if config.Timeout <= 0 {
		return errors.Errorf("timeout must be positive: %v", config.Timeout)
	} else if config.Workers <= 0 {
		return errors.Errorf("workers must be positive: %v", config.Workers)
	} else if config.SeparationCap < model.NoSeparationCap {
		return errors.Errorf("separation cap must be %d (unlimited) or greater: %v", model.NoSeparationCap, config.SeparationCap)
	} else if config.MatchingLimit < 0 {
		return errors.Errorf("matching limit cannot be negative: %v", config.MatchingLimit)
	}
	return nil
}

// NewSeater builds the configured engine and the seater around it
func (config Config) NewSeater(logger logrus.FieldLogger) (model.Seater, error) {
	solver, err := sat.NewSolver(config.Solver)
	if err != nil {
		return nil, err
	}
	return model.NewSeater(solver, config.SeaterOptions(logger)...), nil
}

func (config Config) SeaterOptions(logger logrus.FieldLogger) []model.Option {
	options := []model.Option{
		model.WithTimeout(config.Timeout),
		model.WithWorkers(config.Workers),
		model.WithSeparationCap(config.SeparationCap),
		model.WithTightLinking(config.TightLinking),
		model.WithLogger(logger),
	}
	if config.MatchingLimit > 0 {
		options = append(options, model.WithMatchingCheck(config.MatchingLimit))
	}
	return options
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envReader collects every malformed variable so they can be reported at once
type envReader struct {
	errs []string
}

func (reader *envReader) intVar(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		reader.errs = append(reader.errs, "invalid int for "+key+": "+strconv.Quote(s))
		return def
	}
	return n
}

func (reader *envReader) boolVar(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		reader.errs = append(reader.errs, "invalid bool for "+key+": "+strconv.Quote(s))
		return def
	}
	return b
}

func (reader *envReader) durationVar(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		reader.errs = append(reader.errs, "invalid duration for "+key+": "+strconv.Quote(s))
		return def
	}
	return d
}
