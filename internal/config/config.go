package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения, перекрывающих ключи файла:
// storage.driver -> NOTES_STORAGE_DRIVER
const EnvPrefix = "NOTES"

// expandPlaceholders подставляет переменные окружения в значение.
// Поддерживается форма ${VAR:-default}: default берется, если VAR пустая.
func expandPlaceholders(s string) string {
	return os.Expand(s, func(name string) string {
		name, fallback, _ := strings.Cut(name, ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		return fallback
	})
}

// coerce возвращает bool или int, если строка на них похожа
func coerce(s string) any {
	if s == "true" || s == "false" {
		return s == "true"
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

// InitConfig читает конфигурационный файл в структуру C
func InitConfig[C any](configFile string) (*C, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig: %w", err)
	}

	for _, key := range v.AllKeys() {
		raw := v.GetString(key)
		if !strings.Contains(raw, "$") {
			continue
		}
		v.Set(key, coerce(expandPlaceholders(raw)))
	}

	cfg := new(C)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	return cfg, nil
}

// Load читает config.yml приложения. Если файла нет и optional=true,
// возвращается конфигурация по умолчанию.
func Load(configFile string, optional bool) (*Config, error) {
	if _, err := os.Stat(configFile); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	cfg, err := InitConfig[Config](configFile)
	if err != nil {
		return nil, err
	}
	cfg.FillDefaults()

	return cfg, nil
}
