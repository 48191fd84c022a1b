package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Zacy-Sokach/sqlassistant/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendURL     = "https://nl2sql-backend-zqrg.onrender.com/api/ask/"
	DefaultSessionID      = "frontend-user"
	DefaultTimeoutSeconds = 60
	DefaultTheme          = "light"
	DefaultLogLevel       = "info"
)

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Theme   string        `yaml:"theme"`
	Log     LogConfig     `yaml:"log"`
}

type BackendConfig struct {
	URL            string `yaml:"url"`
	SessionID      string `yaml:"session_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Timeout 返回请求超时，0 表示不限制
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:            DefaultBackendURL,
			SessionID:      DefaultSessionID,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Theme: DefaultTheme,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Exists 报告配置文件是否已经存在
func Exists() bool {
	configPath, err := getConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(configPath)
	return err == nil
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// applyDefaults 补全文件里缺失的字段
func (c *Config) applyDefaults() {
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendURL
	}
	if c.Backend.SessionID == "" {
		c.Backend.SessionID = DefaultSessionID
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// ApplyEnv 用环境变量覆盖配置，getenv 通常是 os.Getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("SQLASSISTANT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := getenv("SQLASSISTANT_SESSION_ID"); v != "" {
		c.Backend.SessionID = v
	}
	if v := getenv("SQLASSISTANT_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SQLASSISTANT_TIMEOUT_SECONDS 不是整数: %w", err)
		}
		c.Backend.TimeoutSeconds = seconds
	}
	if v := getenv("SQLASSISTANT_THEME"); v != "" {
		c.Theme = strings.ToLower(v)
	}
	if v := getenv("SQLASSISTANT_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url 无效: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.url 必须是 http(s) 绝对地址: %q", c.Backend.URL)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return errors.New("backend.timeout_seconds 不能为负数")
	}
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("theme 只能是 light 或 dark: %q", c.Theme)
	}
	return nil
}

// LogFilePath 返回日志文件路径，未配置时放在配置目录下
func (c *Config) LogFilePath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	configDir, err := utils.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取配置目录失败: %w", err)
	}
	return filepath.Join(configDir, "sqlassistant.log"), nil
}

func SaveConfig(config *Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := utils.CreateFile(configPath, data); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

func getConfigPath() (string, error) {
	configDir, err := utils.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取配置目录失败: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}
