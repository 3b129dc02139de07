package platform

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SHELLPANE_"

var validate = validator.New()

// FlagsConfig holds all boolean or string flags for the app.
type FlagsConfig struct {
	// Headless disables the HTTP server when true.
	Headless bool `yaml:"headless"`
}

// LogConfig controls the default slog logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ShellConfig selects the interpreter command lines are handed to and the
// fixed encoding their output is decoded with.
type ShellConfig struct {
	// Interpreter overrides the platform default (/bin/sh -c, cmd.exe /C).
	Interpreter     string   `yaml:"interpreter"`
	InterpreterArgs []string `yaml:"interpreter_args"`
	Encoding        string   `yaml:"encoding" validate:"required"`
}

// AppConfig contains the configuration for the app.
type AppConfig struct {
	Flags      *FlagsConfig          `yaml:"flags" validate:"required"`
	Log        *LogConfig            `yaml:"log" validate:"required"`
	NatsCfg    *EmbeddedServerConfig `yaml:"nats" validate:"required"`
	HTTPSrvCfg *HTTPServerConfig     `yaml:"http" validate:"required"`
	ShellCfg   *ShellConfig          `yaml:"shell" validate:"required"`
}

// LoadAppConfig builds the configuration from defaults, then the YAML file
// named by SHELLPANE_CONFIG (or ./shellpane.yaml if present), then
// environment variables. A .env file in the working directory is loaded into
// the environment first without overriding existing variables.
func LoadAppConfig() (*AppConfig, error) {
	_ = godotenv.Load()
	return loadAppConfig(os.LookupEnv)
}

func loadAppConfig(lookup func(string) (string, bool)) (*AppConfig, error) {
	cfg := &AppConfig{
		Flags:      defaultFlagsCfg(),
		Log:        &LogConfig{Level: "info"},
		NatsCfg:    defaultNatsCfg(),
		HTTPSrvCfg: defaultHTTPServerCfg(),
		ShellCfg:   &ShellConfig{Encoding: "utf-8"},
	}

	path, explicit := lookup(envPrefix + "CONFIG")
	if !explicit {
		path = "shellpane.yaml"
	}
	if err := mergeYAML(cfg, path, explicit); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func mergeYAML(cfg *AppConfig, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		if v, ok := lookup(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
		return nil
	}

	if err := boolean("HEADLESS", &cfg.Flags.Headless); err != nil {
		return err
	}
	if err := boolean("TLS", &cfg.HTTPSrvCfg.EnableTLS); err != nil {
		return err
	}
	if v, ok := lookup(envPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", envPrefix, err)
		}
		cfg.HTTPSrvCfg.Port = port
	}
	str("CERT_FILE", &cfg.HTTPSrvCfg.CertFile)
	str("KEY_FILE", &cfg.HTTPSrvCfg.KeyFile)
	str("SESSION_KEY", &cfg.HTTPSrvCfg.SessionKey)
	str("STORE_DIR", &cfg.NatsCfg.StoreDir)
	str("ENCODING", &cfg.ShellCfg.Encoding)
	str("LOG_LEVEL", &cfg.Log.Level)
	if v, ok := lookup(envPrefix + "SHELL"); ok {
		// "/bin/bash -c" style: first field is the program
		fields := strings.Fields(v)
		if len(fields) > 0 {
			cfg.ShellCfg.Interpreter = fields[0]
			cfg.ShellCfg.InterpreterArgs = fields[1:]
		}
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	return nil
}

// defaultFlagsCfg returns the default FlagsConfig.
func defaultFlagsCfg() *FlagsConfig {
	return &FlagsConfig{
		Headless: false,
	}
}

// defaultHTTPServerCfg returns sane defaults for the HTTP server.
func defaultHTTPServerCfg() *HTTPServerConfig {
	return &HTTPServerConfig{
		Port:         8080,
		ReadTimeout:  -1,
		WriteTimeout: -1,
		IdleTimeout:  -1,
		EnableTLS:    false,
		CertFile:     "./local_certs/localhost+2.pem",
		KeyFile:      "./local_certs/localhost+2-key.pem",
	}
}

// defaultNatsCfg returns the default EmbeddedServerConfig.
func defaultNatsCfg() *EmbeddedServerConfig {
	return &EmbeddedServerConfig{
		InProcess:     true,
		EnableLogging: true,
		JetStream:     true,
		StoreDir:      "", // temp dir
		MaxPayload:    8 << 20,
	}
}
