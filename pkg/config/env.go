package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv 从 .env 文件加载环境变量
// 不传路径时读取当前目录的 .env；文件不存在时返回错误，调用方可忽略并使用系统环境变量或默认值。
// 已存在的环境变量不会被覆盖。
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv 返回环境变量 key 的值；未设置或为空时返回 fallback
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt 返回整数环境变量；未设置、为空或不是合法整数时返回 fallback
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvUint64 返回无符号整数环境变量（用于运行种子）
func GetEnvUint64(key string, fallback uint64) uint64 {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvFloat 返回浮点环境变量；非法值时返回 fallback
func GetEnvFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}
