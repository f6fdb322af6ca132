// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     int
	DataDir  string
	Username string
	Password string
	Hostname string

	RetentionAge     time.Duration
	SweepInterval    time.Duration
	SweepConcurrency int
	OrphanGrace      time.Duration
	ArchiveDir       string

	Mail MailConfig

	ConfigFile string
}

// MailConfig holds the Mailgun settings. Notification is off unless all are set.
type MailConfig struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Domain string `yaml:"domain"`
	Key    string `yaml:"key"`
}

// Enabled reports whether every Mailgun setting is present
func (m MailConfig) Enabled() bool {
	return m.From != "" && m.To != "" && m.Domain != "" && m.Key != ""
}

// fileConfig is the YAML file layout. Durations use Go syntax ("720h").
type fileConfig struct {
	Port             int        `yaml:"port"`
	Directory        string     `yaml:"directory"`
	Username         string     `yaml:"username"`
	Password         string     `yaml:"password"`
	Hostname         string     `yaml:"hostname"`
	Retention        string     `yaml:"retention"`
	SweepInterval    string     `yaml:"sweep_interval"`
	SweepConcurrency int        `yaml:"sweep_concurrency"`
	OrphanGrace      string     `yaml:"orphan_grace"`
	ArchiveDirectory string     `yaml:"archive_directory"`
	Mail             MailConfig `yaml:"mail"`
}

// Defaults
const (
	DefaultPort             = 8080
	DefaultDataDir          = "approval-data"
	DefaultUsername         = "approval"
	DefaultPassword         = "approval"
	DefaultRetentionAge     = 30 * 24 * time.Hour
	DefaultSweepInterval    = time.Hour
	DefaultSweepConcurrency = 3
)

// ParseFlags resolves configuration from flags, then environment (including
// a .env file), then an optional YAML file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("approval", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataDir, "d", "", "Data directory")
	fs.StringVar(&cfg.Username, "u", "", "Organizer username")
	fs.StringVar(&cfg.Password, "password", "", "Organizer password (prefer env)")
	fs.StringVar(&cfg.Hostname, "host", "", "Public hostname used in notification links")
	fs.DurationVar(&cfg.RetentionAge, "retention", 0, "Delete polls older than this")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", 0, "Time between retention sweeps")
	fs.IntVar(&cfg.SweepConcurrency, "sweep-concurrency", 0, "Poll directories checked at once per sweep")
	fs.DurationVar(&cfg.OrphanGrace, "orphan-grace", 0, "Also delete definition-less poll directories older than this (0 disables)")
	fs.StringVar(&cfg.ArchiveDir, "archive", "", "Archive expired polls here before deleting them")
	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML config file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Existing environment wins over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	var file fileConfig
	if cfg.ConfigFile != "" {
		raw, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("%s: %w", cfg.ConfigFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	cfg.DataDir = firstNonEmpty(cfg.DataDir, os.Getenv("DIRECTORY"), file.Directory, DefaultDataDir)
	cfg.Username = firstNonEmpty(cfg.Username, os.Getenv("USERNAME"), file.Username, DefaultUsername)
	cfg.Password = firstNonEmpty(cfg.Password, os.Getenv("PASSWORD"), file.Password, DefaultPassword)
	cfg.ArchiveDir = firstNonEmpty(cfg.ArchiveDir, os.Getenv("ARCHIVE_DIRECTORY"), file.ArchiveDirectory)

	if cfg.Hostname == "" {
		cfg.Hostname = firstNonEmpty(os.Getenv("HOSTNAME"), file.Hostname)
	}
	if cfg.Hostname == "" {
		cfg.Hostname, _ = os.Hostname()
	}

	var err error
	if cfg.RetentionAge, err = resolveDuration(cfg.RetentionAge, "RETENTION", file.Retention, DefaultRetentionAge); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = resolveDuration(cfg.SweepInterval, "SWEEP_INTERVAL", file.SweepInterval, DefaultSweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.OrphanGrace, err = resolveDuration(cfg.OrphanGrace, "ORPHAN_GRACE", file.OrphanGrace, 0); err != nil {
		return Config{}, err
	}
	if cfg.RetentionAge <= 0 {
		return Config{}, errors.New("retention must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, errors.New("sweep interval must be positive")
	}
	if cfg.OrphanGrace < 0 {
		return Config{}, errors.New("orphan grace must not be negative")
	}

	if cfg.SweepConcurrency == 0 {
		if s := os.Getenv("SWEEP_CONCURRENCY"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid SWEEP_CONCURRENCY env variable")
			}
			cfg.SweepConcurrency = n
		} else if file.SweepConcurrency != 0 {
			cfg.SweepConcurrency = file.SweepConcurrency
		} else {
			cfg.SweepConcurrency = DefaultSweepConcurrency
		}
	}
	if cfg.SweepConcurrency < 1 {
		return Config{}, errors.New("sweep concurrency must be at least 1")
	}

	cfg.Mail = MailConfig{
		From:   firstNonEmpty(os.Getenv("MAILGUN_FROM"), file.Mail.From),
		To:     firstNonEmpty(os.Getenv("EMAIL_TO"), file.Mail.To),
		Domain: firstNonEmpty(os.Getenv("MAILGUN_DOMAIN"), file.Mail.Domain),
		Key:    firstNonEmpty(os.Getenv("MAILGUN_KEY"), file.Mail.Key),
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveDuration(flagValue time.Duration, env, fileValue string, fallback time.Duration) (time.Duration, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	if s := os.Getenv(env); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid %s env variable: %w", env, err)
		}
		return d, nil
	}
	if fileValue != "" {
		d, err := time.ParseDuration(fileValue)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q in config file: %w", fileValue, err)
		}
		return d, nil
	}
	return fallback, nil
}
