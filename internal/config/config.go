package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config 只提供取值，不承载任何行为；DatabaseURL 仅用于 /info 展示。
type Config struct {
	AppName     string
	AppVersion  string
	Port        string
	Env         string
	Debug       bool
	DatabaseURL string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load 读取环境变量（优先加载 .env 文件，缺失时忽略）。
func Load() Config {
	_ = godotenv.Load()
	return Config{
		AppName:     getenv("APP_NAME", "Param Demo API"),
		AppVersion:  getenv("APP_VERSION", "1.0.0"),
		Port:        getenv("APP_PORT", "8080"),
		Env:         getenv("APP_ENV", "dev"),
		Debug:       getenv("DEBUG", "false") == "true",
		DatabaseURL: getenv("DATABASE_URL", "sqlite:///./test.db"),
	}
}

// Validate 检查配置是否可用于启动。
func Validate(cfg Config) error {
	if cfg.AppName == "" {
		return errors.New("app name must not be empty")
	}
	if cfg.Port == "" {
		return errors.New("port must not be empty")
	}
	if cfg.Env != "dev" && cfg.Env != "prod" && cfg.Env != "test" {
		return errors.New("env must be one of dev, prod, test")
	}
	return nil
}
