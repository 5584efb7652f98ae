package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultTimeout         = 30 * time.Second
	DefaultMaxDocumentSize = 20 * 1024 * 1024 // 20MB

	// EnvPrefix is prepended to every environment variable
	EnvPrefix = "KV_ENTITIES"
)

// Config holds all configuration for the key-value entity MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document sources
	DocumentDirectory string        // local documents are confined to this directory
	Endpoint          string        // default URL used when a request names no source
	Timeout           time.Duration // per-request fetch timeout
	EnvFile           string

	// Application configuration
	Version         string
	ServerName      string
	LogLevel        string
	MaxDocumentSize int64 // Maximum document size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio, // Default to stdio mode for MCP compatibility
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		Timeout:           DefaultTimeout,
		Version:           "1.0.0",
		ServerName:        "mcp-kv-entities",
		LogLevel:          DefaultLogLevel,
		MaxDocumentSize:   DefaultMaxDocumentSize,
	}
}

// LoadFromFlags parses command line flags and environment and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	// Variables from the env file never override the real environment
	if envFile := viper.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("cannot load env file %s: %w", envFile, err)
		}
	}

	populateConfigFromViper(cfg)

	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("endpoint", cfg.Endpoint)
	viper.SetDefault("timeout", cfg.Timeout)
	viper.SetDefault("env-file", cfg.EnvFile)
	viper.SetDefault("log-level", cfg.LogLevel)
	viper.SetDefault("max-document-size", cfg.MaxDocumentSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing document analysis JSON files")
	pflag.String("endpoint", cfg.Endpoint, "Default document analysis endpoint URL")
	pflag.Duration("timeout", cfg.Timeout, "Timeout for fetching a document")
	pflag.String("env-file", cfg.EnvFile, "Optional .env file to load before reading the environment")
	pflag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("max-document-size", cfg.MaxDocumentSize, "Maximum document size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "endpoint", "timeout", "env-file", "log-level", "max-document-size",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP KV Entities - extract key-value entities from document analysis results\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/results            # stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --endpoint=https://host/analysis  # default remote document\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_MODE               Server mode\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_HOST               Server host\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_PORT               Server port\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_DIR                Document directory\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_ENDPOINT           Default endpoint URL\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_TIMEOUT            Fetch timeout\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_LOG_LEVEL          Log level\n")
		fmt.Fprintf(os.Stderr, "  KV_ENTITIES_MAX_DOCUMENT_SIZE  Maximum document size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.Endpoint = viper.GetString("endpoint")
	cfg.Timeout = viper.GetDuration("timeout")
	cfg.EnvFile = viper.GetString("env-file")
	cfg.LogLevel = viper.GetString("log-level")
	cfg.MaxDocumentSize = viper.GetInt64("max-document-size")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}
	if info, err := os.Stat(c.DocumentDirectory); err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	} else if !info.IsDir() {
		return fmt.Errorf("document directory %s is not a directory", c.DocumentDirectory)
	}

	if c.Endpoint != "" && !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("endpoint must be an http(s) URL: %s", c.Endpoint)
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.MaxDocumentSize <= 0 {
		return errors.New("maximum document size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, Endpoint: %s, "+
		"Timeout: %s, LogLevel: %s, MaxDocumentSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.Endpoint, c.Timeout, c.LogLevel, c.MaxDocumentSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
