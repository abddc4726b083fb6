package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// DefaultEnvFiles are tried in order when no env file was set explicitly.
var DefaultEnvFiles = []string{".env.local", ".env"}

var (
	mu          sync.Mutex
	envFilePath string
	loaded      bool
)

// SetEnvFile pins the env file used by New. An empty path restores the defaults.
func SetEnvFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	envFilePath = strings.TrimSpace(path)
	loaded = false
}

func New[T any](prefix string) (*T, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("process %s config: %w", prefixOrRoot(prefix), err)
	}

	return &conf, nil
}

func loadEnvFile() error {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return nil
	}

	if envFilePath != "" {
		if err := exportEnvironment(envFilePath); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		loaded = true
		return nil
	}

	for _, candidate := range DefaultEnvFiles {
		found, err := exportEnvironmentIfExists(candidate)
		if err != nil {
			return fmt.Errorf("failed to load default env file %s: %w", candidate, err)
		}
		if found {
			break
		}
	}
	loaded = true
	return nil
}

func exportEnvironmentIfExists(filepath string) (bool, error) {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	return true, exportEnvironment(filepath)
}

// exportEnvironment copies file values into the process environment.
// Variables already present in the environment win over the file.
func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}

	return nil
}

func prefixOrRoot(prefix string) string {
	if prefix == "" {
		return "root"
	}
	return prefix
}
