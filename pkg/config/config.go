package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

type Config struct {
	BaseURL        string        `toml:"base_url"`
	Timeout        time.Duration `toml:"timeout"`
	LogLevel       string        `toml:"log_level"`
	SessionBackend string        `toml:"session_backend"`
	SessionFile    string        `toml:"session_file"`
	RedisAddr      string        `toml:"redis_addr"`
	RedisPrefix    string        `toml:"redis_prefix"`
	DatabaseURI    string        `toml:"database_uri"`
	DatabaseDriver string        `toml:"database_driver"`
	EnvFile        string        `toml:"-"`
	File           string        `toml:"-"`
}

func Defaults() Config {
	return Config{
		BaseURL:        "http://127.0.0.1:8000/api",
		Timeout:        30 * time.Second,
		LogLevel:       "info",
		SessionBackend: BackendFile,
		SessionFile:    defaultSessionFile(),
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "guide:",
		DatabaseDriver: "pgx",
		EnvFile:        ".env",
	}
}

// Parse layers the configuration: defaults, TOML file, .env, flags, environment.
// Remaining positional arguments are returned alongside the config.
func Parse(args []string) (*Config, []string, error) {
	cfg := Defaults()

	flags := flag.NewFlagSet("guide", flag.ContinueOnError)
	flagFile := flags.String("c", os.Getenv("GUIDE_CONFIG"), "TOML config file.")
	flagEnv := flags.String("e", cfg.EnvFile, "Dotenv file.")
	flagBaseURL := flags.String("u", "", "API base URL.")
	flagTimeout := flags.Duration("t", 0, "Request timeout.")
	flagLogLevel := flags.String("l", "", "Log level.")
	flagBackend := flags.String("s", "", "Session backend: memory, file, redis or sql.")
	if err := flags.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("config: can't parse flags, %w", err)
	}

	cfg.File = *flagFile
	cfg.EnvFile = *flagEnv

	if cfg.File != "" {
		if err := cfg.updateFromFile(cfg.File); err != nil {
			return nil, nil, err
		}
	}
	if err := loadDotenv(cfg.EnvFile); err != nil {
		return nil, nil, err
	}

	if *flagBaseURL != "" {
		cfg.BaseURL = *flagBaseURL
	}
	if *flagTimeout != 0 {
		cfg.Timeout = *flagTimeout
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if *flagBackend != "" {
		cfg.SessionBackend = *flagBackend
	}

	if err := cfg.updateFromEnv(); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, flags.Args(), nil
}

func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		return errors.New("config: base URL is empty")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", cfg.Timeout)
	}
	switch cfg.SessionBackend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQL:
	default:
		return fmt.Errorf("config: unknown session backend `%s`", cfg.SessionBackend)
	}
	if cfg.SessionBackend == BackendSQL && cfg.DatabaseURI == "" {
		return errors.New("config: sql session backend requires DATABASE_URI")
	}
	return nil
}

// updateFromFile decodes a TOML file over the current values. Durations are
// written as strings, e.g. timeout = "45s".
func (cfg *Config) updateFromFile(path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("config: can't read `%s`, %w", path, err)
	}
	return nil
}

func (cfg *Config) updateFromEnv() error {
	if u, ok := os.LookupEnv("GUIDE_BASE_URL"); ok {
		cfg.BaseURL = u
	}
	if t, ok := os.LookupEnv("GUIDE_TIMEOUT"); ok {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("config: bad GUIDE_TIMEOUT, %w", err)
		}
		cfg.Timeout = d
	}
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = lvl
	}
	if b, ok := os.LookupEnv("SESSION_BACKEND"); ok {
		cfg.SessionBackend = b
	}
	if f, ok := os.LookupEnv("SESSION_FILE"); ok {
		cfg.SessionFile = f
	}
	if addr, ok := os.LookupEnv("REDIS_ADDR"); ok {
		cfg.RedisAddr = addr
	}
	if p, ok := os.LookupEnv("REDIS_PREFIX"); ok {
		cfg.RedisPrefix = p
	}
	if db, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = db
	}
	if drv, ok := os.LookupEnv("DATABASE_DRIVER"); ok {
		cfg.DatabaseDriver = drv
	}
	return nil
}

// loadDotenv never overrides variables already present in the environment.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: can't load `%s`, %w", path, err)
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".guide", "session.json")
	}
	return filepath.Join(home, ".guide", "session.json")
}
