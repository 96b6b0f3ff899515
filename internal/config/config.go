package config

import (
	"os"
	"strconv"
	"time"

	"nucgen/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig `validate:"required"`
	Data       DataConfig   `validate:"required"`
	Simulation SimulationConfig
	Profiling  ProfilingConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// run persistence rather than failing startup.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string `validate:"required"`
	GinMode         string
	ShutdownTimeout time.Duration
}

// DataConfig holds the physics data locations
type DataConfig struct {
	DecayDataDir      string `validate:"required"`
	BindingEnergyFile string `validate:"required"`
}

// SimulationConfig holds decay-chain generation settings
type SimulationConfig struct {
	Workers       int
	CutoffS       float64
	MaxChains     int64
	HistogramBins int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	// Load database configuration
	config.Database = *loadDatabaseConfig()

	// Load server configuration
	config.Server = *loadServerConfig()

	// Load data configuration
	dataConfig, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}
	config.Data = *dataConfig

	// Load simulation configuration
	config.Simulation = *loadSimulationConfig()

	// Load profiling configuration
	config.Profiling = *loadProfilingConfig()

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:     getEnvOrDefault("DATABASE_URL", ""),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDataConfig() (*DataConfig, error) {
	dataDir := os.Getenv("DECAY_DATA_DIR")
	if dataDir == "" {
		return nil, errors.ConfigInvalid("DECAY_DATA_DIR is required")
	}

	bindingFile := os.Getenv("BINDING_ENERGY_FILE")
	if bindingFile == "" {
		bindingFile = dataDir + "/ElectronBindingEnergy.txt" // default
	}

	return &DataConfig{
		DecayDataDir:      dataDir,
		BindingEnergyFile: bindingFile,
	}, nil
}

func loadSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		Workers:       getEnvIntOrDefault("SIM_WORKERS", 4),
		CutoffS:       getEnvFloatOrDefault("SIM_CUTOFF_S", 1e-6),
		MaxChains:     int64(getEnvIntOrDefault("SIM_MAX_CHAINS", 10_000_000)),
		HistogramBins: getEnvIntOrDefault("SIM_HISTOGRAM_BINS", 40),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	if config.Data.DecayDataDir == "" {
		return errors.ConfigInvalid("decay data directory is required")
	}
	if config.Data.BindingEnergyFile == "" {
		return errors.ConfigInvalid("binding energy file is required")
	}
	if config.Simulation.Workers <= 0 {
		return errors.ConfigInvalid("worker count must be positive")
	}
	if config.Simulation.CutoffS <= 0 {
		return errors.ConfigInvalid("half-life cutoff must be positive")
	}
	return nil
}

// Persistence reports whether a run repository should be wired
func (c *Config) Persistence() bool {
	return c.Database.URL != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
