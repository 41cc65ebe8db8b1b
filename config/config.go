package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Chat struct {
		APIKey          string   `yaml:"api_key"`
		DefaultModel    string   `yaml:"default_model"`
		Models          []string `yaml:"models"`
		MaxOutputTokens int32    `yaml:"max_output_tokens"`
	} `yaml:"chat"`
	Auth struct {
		Secret  string `yaml:"secret"`
		ExpHour int    `yaml:"exp_hour"`
	} `yaml:"auth"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

// GlobalConfig is the global configuration instance
var GlobalConfig Config

// DSN generates the PostgreSQL DSN from database config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

// LoadConfig reads and parses the YAML configuration file into GlobalConfig
func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		return err
	}

	// Validate required fields
	if GlobalConfig.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if GlobalConfig.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if GlobalConfig.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if GlobalConfig.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}
	if GlobalConfig.Database.SSLMode == "" {
		return fmt.Errorf("database.sslmode is required")
	}
	if GlobalConfig.Chat.APIKey == "" {
		return fmt.Errorf("chat.api_key is required")
	}
	if GlobalConfig.Chat.DefaultModel == "" {
		return fmt.Errorf("chat.default_model is required")
	}
	if GlobalConfig.Chat.MaxOutputTokens == 0 {
		GlobalConfig.Chat.MaxOutputTokens = 2048
	}
	if GlobalConfig.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if GlobalConfig.Auth.ExpHour == 0 {
		GlobalConfig.Auth.ExpHour = 24
	}
	if GlobalConfig.Server.Port < 1 || GlobalConfig.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	return nil
}
