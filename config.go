package scopedlog

import (
	"os"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config controls the zerolog sink behind Service.
type Config struct {
	Level          string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	SkipFrameCount int    `koanf:"skip_frame_count" validate:"gte=0"`
	WithTimestamp  bool   `koanf:"with_timestamp"`

	ConsoleLogging    bool   `koanf:"console_logging"`
	ConsoleNoColor    bool   `koanf:"console_no_color"`
	ConsoleTimeFormat string `koanf:"console_time_format"`

	FileLogging       bool   `koanf:"file_logging"`
	LogFileName       string `koanf:"log_file_name"`
	RelLogFileDir     string `koanf:"rel_log_file_dir" validate:"required_if=FileLogging true"`
	LogFileMaxBackups int    `koanf:"log_file_max_backups" validate:"gte=0"`
	LogFileMaxAgeDays int    `koanf:"log_file_max_age_days" validate:"gte=0"`
	LogFileMaxSizeMB  int    `koanf:"log_file_max_size_mb" validate:"gte=0"`
	LogFileCompress   bool   `koanf:"log_file_compress"`

	// ShutdownTimeoutMS bounds how long Close waits for in-flight events.
	ShutdownTimeoutMS      int  `koanf:"shutdown_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutWarning bool `koanf:"shutdown_timeout_warning"`
}

// DefaultConfig returns console logging at info level.
func DefaultConfig() Config {
	return Config{
		Level:             "info",
		WithTimestamp:     true,
		ConsoleLogging:    true,
		RelLogFileDir:     "logs",
		LogFileMaxBackups: 3,
		LogFileMaxAgeDays: 7,
		LogFileMaxSizeMB:  10,
		ShutdownTimeoutMS: defaultShutdownTimeoutMS,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and then applies
// SCOPEDLOG_* environment overrides (SCOPEDLOG_FILE_LOGGING -> file_logging).
// An empty path skips the file. The result is validated.
func LoadConfig(path string) (*Config, error) {
	const op errors.Op = "scopedlog.LoadConfig"
	k := koanf.New(".")

	if path != emptyString {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.New(op).Err(err).Msg("Failed to read logging config file.")
		}
		if err = k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.New(op).Err(err).Msg("Failed to parse logging config file.")
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, errors.New(op).Err(err).Msg("Failed to load logging environment.")
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg("Failed to decode logging config.")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
