package config

import "fmt"

// 截面几何常量
const (
	// WallHeight 峡谷壁高度系数（截面高度函数的 pow 乘数）
	WallHeight = 12.0
	// WaterLevel 水面相对路径中心线的高度
	WaterLevel = 0.5
	// RiverWaterWidth 普通河段水道宽度
	RiverWaterWidth = 10.0
	// PondWaterWidth 湖面段水道宽度
	PondWaterWidth = 45.0
	// WallShellWidthScale 背景壁壳相对峡谷宽度的倍数
	WallShellWidthScale = 1.5
	// WallShellCap 背景壁壳高度上限
	WallShellCap = 30.0
)

// 样条张力
const (
	PondSplineTension    = 0.1
	DefaultSplineTension = 0.5
)

// StreamingConfig 赛道流式加载参数
// 构建时固定，不通过核心对外暴露为运行时可配置项
type StreamingConfig struct {
	// GenerationThreshold 相机距离当前末端小于该值时生成下一段
	GenerationThreshold float64
	// MaxActiveSegments 活动窗口内最多保留的段数
	MaxActiveSegments int
	// PoolSize 挂载槽数量（必须 >= MaxActiveSegments）
	PoolSize int
	// ExtensionSteps 每次生成追加的控制点数量
	ExtensionSteps int
	// PlacementStepLength 放置采样沿路径的步长（世界单位）
	PlacementStepLength float64
	// ParkedY 空闲槽哨兵段所处的高度（远离可玩区域）
	ParkedY float64
}

// DefaultStreamingConfig 返回默认流式参数
func DefaultStreamingConfig() StreamingConfig {
	return StreamingConfig{
		GenerationThreshold: 120,
		MaxActiveSegments:   5,
		PoolSize:            6,
		ExtensionSteps:      3,
		PlacementStepLength: 2.0,
		ParkedY:             -10000,
	}
}

// Validate 检查流式参数是否合法
func (c StreamingConfig) Validate() error {
	if c.GenerationThreshold <= 0 {
		return fmt.Errorf("generationThreshold must be positive, got %v", c.GenerationThreshold)
	}
	if c.MaxActiveSegments < 2 {
		return fmt.Errorf("maxActiveSegments must be at least 2, got %d", c.MaxActiveSegments)
	}
	if c.PoolSize < c.MaxActiveSegments {
		return fmt.Errorf("poolSize (%d) must be >= maxActiveSegments (%d)", c.PoolSize, c.MaxActiveSegments)
	}
	if c.ExtensionSteps < 1 {
		return fmt.Errorf("extensionSteps must be at least 1, got %d", c.ExtensionSteps)
	}
	if c.PlacementStepLength <= 0 {
		return fmt.Errorf("placementStepLength must be positive, got %v", c.PlacementStepLength)
	}
	return nil
}
