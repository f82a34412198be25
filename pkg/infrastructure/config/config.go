package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

const (
	dirName    = ".partsmrp"
	fileName   = "config"
	fileType   = "yaml"
	envPrefix  = "PARTSMRP"
	defaultDB  = "partsmrp.db"
	defaultLib = "parts"
)

// Config is the application configuration
type Config struct {
	Database    Database `mapstructure:"database"`
	LibraryName string   `mapstructure:"library_name"`
	Log         Log      `mapstructure:"log"`

	// Dir is the directory relative database paths resolve against
	Dir string `mapstructure:"-"`
	// File is the config file that was read, empty when running on defaults
	File string `mapstructure:"-"`
}

// Database selects the datastore
type Database struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
	DSN  string `mapstructure:"dsn"`
}

// Log configures the zap logger
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultDir returns $HOME/.partsmrp
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: locate home directory: %w", entities.ErrStorage, err)
	}
	return filepath.Join(home, dirName), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", defaultDB)
	v.SetDefault("database.dsn", "")
	v.SetDefault("library_name", defaultLib)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from file (or dir/config.yaml when file is empty),
// the environment and a .env file in the working directory. A missing default
// config file is not an error.
func Load(file, dir string) (Config, error) {
	_ = godotenv.Load()

	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
		dir = filepath.Dir(file)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("%w: config file %s", entities.ErrNotFound, file)
		default:
			return Config{}, fmt.Errorf("%w: read config: %w", entities.ErrInvalidInput, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode config: %w", entities.ErrInvalidInput, err)
	}
	cfg.Dir = dir
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the datastore selection
func (c Config) Validate() error {
	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", entities.ErrInvalidInput)
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for postgres", entities.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported database.type %q", entities.ErrInvalidInput, c.Database.Type)
	}
	return nil
}

// DatabasePath resolves the sqlite file against the config directory
func (c Config) DatabasePath() string {
	if filepath.IsAbs(c.Database.Path) || c.Database.Path == ":memory:" {
		return c.Database.Path
	}
	return filepath.Join(c.Dir, c.Database.Path)
}

// Install writes a config file holding the defaults into dir and returns its path.
// An existing file is left untouched unless overwrite is set.
func Install(dir string, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", entities.ErrStorage, dir, err)
	}

	path := filepath.Join(dir, fileName+"."+fileType)
	v := newViper()
	write := v.SafeWriteConfigAs
	if overwrite {
		write = v.WriteConfigAs
	}
	if err := write(path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return path, fmt.Errorf("%w: %s already exists", entities.ErrInvalidInput, path)
		}
		return "", fmt.Errorf("%w: write %s: %w", entities.ErrStorage, path, err)
	}
	return path, nil
}
