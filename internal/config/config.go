package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefix of environment overrides
const EnvPrefix = "ENGEZNA_"

// AppConfig application configuration
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Import ImportConfig `toml:"import"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port    int  `toml:"port" validate:"gte=0,lte=65535"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig data directory layout
type DataConfig struct {
	DataDir     string `toml:"data_dir" validate:"required"`
	KeepUploads bool   `toml:"keep_uploads"`
}

// ImportConfig extraction settings
type ImportConfig struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold" validate:"gt=0,lte=1"`
	DefaultCategory     string  `toml:"default_category"`
	Concurrency         int     `toml:"concurrency" validate:"gte=0,lte=64"`
	MaxUploadMB         int     `toml:"max_upload_mb" validate:"gte=1,lte=512"`
}

// LogConfig logger settings
type LogConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal"`
	Format string `toml:"format" validate:"omitempty,oneof=json console"`
}

// LoadConfigInfo metadata about how the configuration was loaded
type LoadConfigInfo struct {
	PortSpecified bool
	ConfigPath    string
	FromFile      bool
}

// DefaultConfig default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:     "data",
			KeepUploads: false,
		},
		Import: ImportConfig{
			ConfidenceThreshold: 0.5,
			DefaultCategory:     "عام",
			Concurrency:         0,
			MaxUploadMB:         20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml and .env next to the executable
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return LoadConfigFromDir(exeDir)
}

// LoadConfigFromDir loads dir/config.toml over the defaults, then dir/.env, then
// ENGEZNA_* environment variables, and validates the result. A missing file is
// not an error.
func LoadConfigFromDir(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{ConfigPath: filepath.Join(dir, "config.toml")}
	config := DefaultConfig()

	data, err := os.ReadFile(info.ConfigPath)
	switch {
	case err == nil:
		info.FromFile = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", info.ConfigPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, info, err
	}

	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, info, fmt.Errorf("load %s: %w", envPath, err)
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}

	if err := Validate(config); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv environment overrides (E2E / container runs)
func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", EnvPrefix, err)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv(EnvPrefix + "DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEV_MODE: %w", EnvPrefix, err)
		}
		config.Server.DevMode = dev
	}
	if v := os.Getenv(EnvPrefix + "DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv(EnvPrefix + "CONFIDENCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sCONFIDENCE_THRESHOLD: %w", EnvPrefix, err)
		}
		config.Import.ConfidenceThreshold = f
	}
	if v := os.Getenv(EnvPrefix + "DEFAULT_CATEGORY"); v != "" {
		config.Import.DefaultCategory = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	return nil
}

var validate = validator.New()

// Validate checks field ranges.
func Validate(config *AppConfig) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig loads config.toml next to the executable
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// ResolveDataDir absolute data directory; relative paths are resolved against the executable.
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir creates the data directory and its uploads subdirectory
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "uploads"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// GetDataPath path of a file in a data subdirectory
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}
