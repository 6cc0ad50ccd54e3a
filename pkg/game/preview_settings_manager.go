package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 预览器设置取值范围
const (
	MinCameraSpeed = 1.0
	MaxCameraSpeed = 80.0
	MinZoom        = 0.25
	MaxZoom        = 8.0
)

// PreviewSettings 赛道预览器设置
// 只影响观察方式，不影响生成结果（种子除外）
type PreviewSettings struct {
	// 镜头
	CameraSpeed float64 `yaml:"cameraSpeed"` // 基础行进速度（世界单位/秒）
	Zoom        float64 `yaml:"zoom"`        // 俯视缩放（像素/世界单位）

	// 图层开关
	ShowFloor      bool `yaml:"showFloor"`      // 地面网格
	ShowWall       bool `yaml:"showWall"`       // 背景壁壳
	ShowWater      bool `yaml:"showWater"`      // 水面条带
	ShowPlacements bool `yaml:"showPlacements"` // 装饰物

	// Seed 上次使用的运行种子
	Seed uint64 `yaml:"seed"`

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultPreviewSettings 返回默认设置
func DefaultPreviewSettings() *PreviewSettings {
	return &PreviewSettings{
		CameraSpeed:    12.0,
		Zoom:           2.0,
		ShowFloor:      true,
		ShowWall:       false,
		ShowWater:      true,
		ShowPlacements: true,
		Seed:           1,
		Fullscreen:     false,
	}
}

// PreviewSettingsManager 预览器设置管理器
// 负责设置的加载、保存和内存管理
type PreviewSettingsManager struct {
	gdataManager *gdata.Manager    // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PreviewSettings // 当前设置
}

// 存储路径常量
const (
	previewSettingsObject   = "preview"
	previewSettingsProperty = "settings"
)

// NewPreviewSettingsManager 创建设置管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，记录日志后使用默认设置。
func NewPreviewSettingsManager(gdataManager *gdata.Manager) *PreviewSettingsManager {
	sm := &PreviewSettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultPreviewSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[PreviewSettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或尚未保存过时使用默认设置
func (sm *PreviewSettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(previewSettingsObject, previewSettingsProperty) {
		sm.settings = DefaultPreviewSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(previewSettingsObject, previewSettingsProperty)
	if err != nil {
		sm.settings = DefaultPreviewSettings()
		return fmt.Errorf("failed to load preview settings: %w", err)
	}

	// 旧版本缺少的字段保留默认值
	loaded := DefaultPreviewSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultPreviewSettings()
		return fmt.Errorf("failed to unmarshal preview settings: %w", err)
	}

	loaded.CameraSpeed = clampRange(loaded.CameraSpeed, MinCameraSpeed, MaxCameraSpeed)
	loaded.Zoom = clampRange(loaded.Zoom, MinZoom, MaxZoom)
	sm.settings = loaded
	log.Printf("[PreviewSettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *PreviewSettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal preview settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(previewSettingsObject, previewSettingsProperty, data); err != nil {
		return fmt.Errorf("failed to save preview settings: %w", err)
	}

	log.Printf("[PreviewSettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *PreviewSettingsManager) GetSettings() *PreviewSettings {
	return sm.settings
}

// SetCameraSpeed 设置镜头速度，限制在 [MinCameraSpeed, MaxCameraSpeed]
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *PreviewSettingsManager) SetCameraSpeed(speed float64) {
	sm.settings.CameraSpeed = clampRange(speed, MinCameraSpeed, MaxCameraSpeed)
}

// SetZoom 设置缩放，限制在 [MinZoom, MaxZoom]
func (sm *PreviewSettingsManager) SetZoom(zoom float64) {
	sm.settings.Zoom = clampRange(zoom, MinZoom, MaxZoom)
}

// SetSeed 记录运行种子
func (sm *PreviewSettingsManager) SetSeed(seed uint64) {
	sm.settings.Seed = seed
}

// SetFullscreen 设置全屏模式
func (sm *PreviewSettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// ToggleLayer 切换图层开关，返回切换后的状态
// 参数：
//   - layer: "floor" | "wall" | "water" | "placements"
func (sm *PreviewSettingsManager) ToggleLayer(layer string) (bool, error) {
	var flag *bool
	switch layer {
	case "floor":
		flag = &sm.settings.ShowFloor
	case "wall":
		flag = &sm.settings.ShowWall
	case "water":
		flag = &sm.settings.ShowWater
	case "placements":
		flag = &sm.settings.ShowPlacements
	default:
		return false, fmt.Errorf("unknown layer %q", layer)
	}
	*flag = !*flag
	return *flag, nil
}

// clampRange 将值限制在 [lo, hi] 范围内
func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
