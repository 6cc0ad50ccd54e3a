// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，让其他包可以按 "data/..." 路径读取。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// LevelDirectorPath 内置关卡节奏表的路径
const LevelDirectorPath = "data/track/director.yaml"

var (
	dataFS      fs.FS
	initialized bool
)

// errNotInitialized 未调用 Init 时返回的错误
var errNotInitialized = fmt.Errorf("embedded package not initialized, call Init() first")

// Init 设置嵌入的数据文件系统
// 必须在 main() 开始时、任何资源加载之前调用；测试可以传入 fstest.MapFS
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径并检查前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", errNotInitialized
	}

	// embed.FS 使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, "data/") && path != "data" {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// Open 打开嵌入文件
func Open(path string) (fs.File, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(p)
}

// ReadFile 读取嵌入文件内容
func ReadFile(path string) ([]byte, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(dataFS, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded file %s: %w", p, err)
	}
	return data, nil
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配嵌入文件
func Glob(pattern string) ([]string, error) {
	p, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, p)
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(dataFS, p)
}
