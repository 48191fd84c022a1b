package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const appDirName = "sqlassistant"

// GetConfigDir 获取跨平台的配置目录
// Windows: %APPDATA%/sqlassistant
// Linux/macOS: ~/.config/sqlassistant
func GetConfigDir() (string, error) {
	// 检查是否设置了自定义配置目录
	if configHome := os.Getenv("SQLASSISTANT_CONFIG_HOME"); configHome != "" {
		return configHome, nil
	}

	// Windows: 使用 APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appDirName), nil
	}

	// Linux/macOS: 使用 XDG_CONFIG_HOME 或 ~/.config
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}

// GetConfigPathForDisplay 获取用于显示的配置路径字符串
func GetConfigPathForDisplay() string {
	dir, err := GetConfigDir()
	if err != nil {
		return "~/.config/" + appDirName + "/config.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, dir); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join("~", rel, "config.yaml")
		}
	}
	return filepath.Join(dir, "config.yaml")
}
