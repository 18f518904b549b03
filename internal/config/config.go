package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string        `yaml:"listen_addr"`
	Port              string        `yaml:"port"`
	DatabasePath      string        `yaml:"database_path"`
	SessionSecret     string        `yaml:"session_secret"`
	GinMode           string        `yaml:"gin_mode"`
	UploadDir         string        `yaml:"upload_dir"`
	UploadURLPath     string        `yaml:"upload_url_path"`
	SuperRootUserName string        `yaml:"super_root_user_name"`
	SuperRootPassword string        `yaml:"super_root_password"`
	SiteBaseURL       string        `yaml:"site_base_url"`
	LogLevel          string        `yaml:"log_level"`
	PrettyLog         bool          `yaml:"pretty_log"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Load 从可选的 YAML 文件（CONFIG_FILE）与环境变量读取应用配置，环境变量优先，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	var cfg AppConfig

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return AppConfig{}, err
		}
		cfg = fileCfg
	}

	cfg.Port = getenv("PORT", cfg.Port, "8080")
	cfg.ListenAddr = getenv("LISTEN_ADDR", cfg.ListenAddr, fmt.Sprintf(":%s", cfg.Port))
	cfg.DatabasePath = getenv("DATABASE_PATH", cfg.DatabasePath, "portfolio.db")
	cfg.SessionSecret = getenv("SESSION_SECRET", cfg.SessionSecret, "portfolio-dev-secret")
	cfg.GinMode = getenv("GIN_MODE", cfg.GinMode, "release")
	cfg.UploadDir = getenv("UPLOAD_DIR", cfg.UploadDir, "web/static/uploads")
	cfg.UploadURLPath = getenv("UPLOAD_URL_PATH", cfg.UploadURLPath, "/static/uploads")
	cfg.SiteBaseURL = getenv("SITE_BASE_URL", cfg.SiteBaseURL, "http://localhost:8080")
	cfg.SuperRootUserName = getenv("SUPER_ROOT_USER_NAME", cfg.SuperRootUserName, "")
	cfg.SuperRootPassword = getenv("SUPER_ROOT_PASSWORD", cfg.SuperRootPassword, "")
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel, "info")

	pretty, err := getbool("PRETTY_LOG", cfg.PrettyLog)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.PrettyLog = pretty

	timeout, err := getduration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, 5*time.Second)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.ShutdownTimeout = timeout

	cfg.UploadURLPath = "/" + strings.Trim(cfg.UploadURLPath, "/")
	return cfg, nil
}

// LoadFile 解析 YAML 配置文件。
func LoadFile(path string) (AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func getenv(key, current, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	if trimmed := strings.TrimSpace(current); trimmed != "" {
		return trimmed
	}
	return fallback
}

func getbool(key string, current bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return current, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getduration(key string, current, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		if current > 0 {
			return current, nil
		}
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
