package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/sleeper/internal/constants"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Server holds all configuration for the sleeper server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address" env:"BIND_ADDRESS"`
	Port        int    `yaml:"port" env:"PORT"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	Host    Host    `yaml:"host" envPrefix:"HOST_"`
	Network Network `yaml:"network" envPrefix:"NETWORK_"`
	Logic   Logic   `yaml:"logic" envPrefix:"LOGIC_"`
	Storage Storage `yaml:"storage" envPrefix:"STORAGE_"`
	Spawn   Spawn   `yaml:"spawn" envPrefix:"SPAWN_"`

	// Operators may run the sleep commands (case-insensitive player names).
	Operators []string `yaml:"operators" env:"OPERATORS"`
}

// Host describes the simulated game build. Entity-state field indices depend on it.
type Host struct {
	Version string `yaml:"version" env:"VERSION"`

	// Overrides for the version table; 0 = derive from Version.
	BedPositionIndex int `yaml:"bed_position_index" env:"BED_POSITION_INDEX"`
	PoseIndex        int `yaml:"pose_index" env:"POSE_INDEX"`
}

// Network holds connection tuning.
type Network struct {
	// Frames at or above this size are zlib-compressed; negative disables compression.
	CompressionThreshold int           `yaml:"compression_threshold" env:"COMPRESSION_THRESHOLD"`
	SendQueueSize        int           `yaml:"send_queue_size" env:"SEND_QUEUE_SIZE"` // per-client outbox capacity
	WriteTimeout         time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`     // per-write deadline
	ReadTimeout          time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`       // idle client disconnect
	KeepAliveInterval    time.Duration `yaml:"keep_alive_interval" env:"KEEP_ALIVE_INTERVAL"`
}

// Logic holds logic loop settings.
type Logic struct {
	TickInterval     time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`
	TaskQueueSize    int           `yaml:"task_queue_size" env:"TASK_QUEUE_SIZE"`
	AutosaveInterval time.Duration `yaml:"autosave_interval" env:"AUTOSAVE_INTERVAL"` // 0 disables autosave
}

// Storage selects the player data backend.
type Storage struct {
	Driver     string         `yaml:"driver" env:"DRIVER"`
	SQLitePath string         `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Database   DatabaseConfig `yaml:"database" envPrefix:"DB_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Spawn is where new players appear.
type Spawn struct {
	X float64 `yaml:"x" env:"X"`
	Y float64 `yaml:"y" env:"Y"`
	Z float64 `yaml:"z" env:"Z"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress: "0.0.0.0",
		Port:        25565,
		LogLevel:    "info",
		Host: Host{
			Version: "1.15.2",
		},
		Network: Network{
			CompressionThreshold: constants.DefaultCompressionThreshold,
			SendQueueSize:        constants.DefaultSendQueueSize,
			WriteTimeout:         5 * time.Second,
			ReadTimeout:          30 * time.Second,
			KeepAliveInterval:    10 * time.Second,
		},
		Logic: Logic{
			TickInterval:     50 * time.Millisecond,
			TaskQueueSize:    4096,
			AutosaveInterval: 5 * time.Minute,
		},
		Storage: Storage{
			Driver:     DriverMemory,
			SQLitePath: "sleeper.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "sleeper",
				Password: "sleeper",
				DBName:   "sleeper",
				SSLMode:  "disable",
			},
		},
		Spawn: Spawn{X: 0.5, Y: 64, Z: 0.5},
	}
}

// LoadServer loads server config from a YAML file, then applies SLEEPER_* environment overrides.
// If the file doesn't exist, defaults are used.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the config can start a server.
func (c Server) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Host.Version == "" {
		errs = append(errs, errors.New("host.version is required"))
	}
	if c.Host.BedPositionIndex < 0 || c.Host.BedPositionIndex > 254 {
		errs = append(errs, fmt.Errorf("host.bed_position_index %d out of range", c.Host.BedPositionIndex))
	}
	if c.Host.PoseIndex < 0 || c.Host.PoseIndex > 254 {
		errs = append(errs, fmt.Errorf("host.pose_index %d out of range", c.Host.PoseIndex))
	}
	if c.Network.SendQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("network.send_queue_size must be positive, got %d", c.Network.SendQueueSize))
	}
	if c.Network.WriteTimeout <= 0 || c.Network.ReadTimeout <= 0 {
		errs = append(errs, errors.New("network timeouts must be positive"))
	}
	if c.Logic.TickInterval <= 0 {
		errs = append(errs, errors.New("logic.tick_interval must be positive"))
	}
	if c.Logic.AutosaveInterval < 0 {
		errs = append(errs, errors.New("logic.autosave_interval must not be negative"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for sqlite driver"))
		}
	case DriverPostgres:
		if c.Storage.Database.Host == "" || c.Storage.Database.DBName == "" {
			errs = append(errs, errors.New("storage.database host and dbname are required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	return errors.Join(errs...)
}

// IsOperator reports whether name is listed in Operators.
func (c Server) IsOperator(name string) bool {
	return slices.ContainsFunc(c.Operators, func(op string) bool {
		return strings.EqualFold(op, name)
	})
}

// ParseLogLevel maps debug/info/warn/error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
