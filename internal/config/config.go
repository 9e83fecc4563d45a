package config

import (
	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	SafeApi  SafeApiConfig  `mapstructure:"safeapi"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// SafeApiConfig Safe Transaction Service 配置
type SafeApiConfig struct {
	BaseURL  string `mapstructure:"base_url"`  // 交易服务API地址
	Timeout  int    `mapstructure:"timeout"`   // 请求超时（秒）
	MaxPages int    `mapstructure:"max_pages"` // all-transactions 翻页上限
}

// SyncConfig 转账同步配置
type SyncConfig struct {
	WriteDelayMs int `mapstructure:"write_delay_ms"` // 每条写入后的固定延迟（毫秒）
	DefaultLimit int `mapstructure:"default_limit"`  // 每个钱包默认拉取条数
	AutoInterval int `mapstructure:"auto_interval"`  // 自动同步间隔（秒），0表示禁用
}

// AdminConfig 管理员配置
type AdminConfig struct {
	SuperAdmins []string `mapstructure:"super_admins"` // 超级管理员钱包地址列表
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/safenotes")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "safenotes")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("safeapi.base_url", "https://safe-transaction-mainnet.safe.global/api/v1")
	viper.SetDefault("safeapi.timeout", 30)
	viper.SetDefault("safeapi.max_pages", 10)
	viper.SetDefault("sync.write_delay_ms", 100)
	viper.SetDefault("sync.default_limit", 50)
	viper.SetDefault("sync.auto_interval", 0)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
