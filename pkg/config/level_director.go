package config

import (
	"fmt"
	"os"

	"github.com/gonewx/watershed/pkg/types"
	"gopkg.in/yaml.v3"
)

// SegmentConfig 赛道段生成参数
// 由关卡导演按段索引给出，值类型，生成后不可变
type SegmentConfig struct {
	Type                    types.SegmentType `yaml:"type"`                    // 段类型
	Biome                   types.Biome       `yaml:"biome"`                   // 群系
	Width                   float64           `yaml:"width"`                   // 峡谷宽度
	MeanderStrength         float64           `yaml:"meanderStrength"`         // 蜿蜒强度（转向偏置幅度）
	VerticalBias            float64           `yaml:"verticalBias"`            // 垂直偏置（负值 = 下行）
	SegmentLengthMultiplier float64           `yaml:"segmentLengthMultiplier"` // 步长倍率
	FlowSpeed               float64           `yaml:"flowSpeed"`               // 水流速度倍率
	ParticleCount           int               `yaml:"particleCount"`           // 瀑布/水花粒子数量
	TreeDensity             float64           `yaml:"treeDensity"`             // 树木密度倍率
	RockDensity             types.RockDensity `yaml:"rockDensity"`             // 岩石密度档位
	FogDensity              float64           `yaml:"fogDensity"`              // 雾浓度
	CameraShake             float64           `yaml:"cameraShake"`             // 镜头抖动幅度
	ForwardMomentum         float64           `yaml:"forwardMomentum"`         // 前进动量
	TransitionDuration      float64           `yaml:"transitionDuration"`      // 参数过渡时长（秒）
}

// SegmentConfigOverride 规则覆盖字段
// nil 字段表示沿用基础配置
type SegmentConfigOverride struct {
	Type                    *types.SegmentType `yaml:"type"`
	Biome                   *types.Biome       `yaml:"biome"`
	Width                   *float64           `yaml:"width"`
	MeanderStrength         *float64           `yaml:"meanderStrength"`
	VerticalBias            *float64           `yaml:"verticalBias"`
	SegmentLengthMultiplier *float64           `yaml:"segmentLengthMultiplier"`
	FlowSpeed               *float64           `yaml:"flowSpeed"`
	ParticleCount           *int               `yaml:"particleCount"`
	TreeDensity             *float64           `yaml:"treeDensity"`
	RockDensity             *types.RockDensity `yaml:"rockDensity"`
	FogDensity              *float64           `yaml:"fogDensity"`
	CameraShake             *float64           `yaml:"cameraShake"`
	ForwardMomentum         *float64           `yaml:"forwardMomentum"`
	TransitionDuration      *float64           `yaml:"transitionDuration"`
}

// DirectorRule 索引区间规则
// 覆盖 [From, To] 闭区间；To 为 nil 时区间无上界
type DirectorRule struct {
	Name     string                `yaml:"name"`     // 规则名称（仅用于日志和调试）
	From     int                   `yaml:"from"`     // 起始索引（含）
	To       *int                  `yaml:"to"`       // 结束索引（含），nil 表示无上界
	Override SegmentConfigOverride `yaml:"override"` // 覆盖字段
}

// Matches 检查索引是否落在规则区间内
func (r *DirectorRule) Matches(index int) bool {
	if index < r.From {
		return false
	}
	return r.To == nil || index <= *r.To
}

// LevelDirector 关卡导演
// 按段索引查表给出 SegmentConfig；无状态，同一索引永远返回同一结果
type LevelDirector struct {
	Base  SegmentConfig  `yaml:"base"`  // 基础默认配置
	Rules []DirectorRule `yaml:"rules"` // 按顺序匹配，先匹配者生效
}

// ConfigFor 返回指定段索引的配置
// 第一个匹配的规则在基础配置上覆盖字段；没有匹配时返回基础配置
func (d *LevelDirector) ConfigFor(index int) SegmentConfig {
	cfg := d.Base
	for i := range d.Rules {
		if d.Rules[i].Matches(index) {
			d.Rules[i].Override.apply(&cfg)
			break
		}
	}
	return cfg
}

// RuleFor 返回匹配索引的规则名称，无匹配时返回 "base"
func (d *LevelDirector) RuleFor(index int) string {
	for i := range d.Rules {
		if d.Rules[i].Matches(index) {
			return d.Rules[i].Name
		}
	}
	return "base"
}

func (o *SegmentConfigOverride) apply(cfg *SegmentConfig) {
	if o.Type != nil {
		cfg.Type = *o.Type
	}
	if o.Biome != nil {
		cfg.Biome = *o.Biome
	}
	if o.Width != nil {
		cfg.Width = *o.Width
	}
	if o.MeanderStrength != nil {
		cfg.MeanderStrength = *o.MeanderStrength
	}
	if o.VerticalBias != nil {
		cfg.VerticalBias = *o.VerticalBias
	}
	if o.SegmentLengthMultiplier != nil {
		cfg.SegmentLengthMultiplier = *o.SegmentLengthMultiplier
	}
	if o.FlowSpeed != nil {
		cfg.FlowSpeed = *o.FlowSpeed
	}
	if o.ParticleCount != nil {
		cfg.ParticleCount = *o.ParticleCount
	}
	if o.TreeDensity != nil {
		cfg.TreeDensity = *o.TreeDensity
	}
	if o.RockDensity != nil {
		cfg.RockDensity = *o.RockDensity
	}
	if o.FogDensity != nil {
		cfg.FogDensity = *o.FogDensity
	}
	if o.CameraShake != nil {
		cfg.CameraShake = *o.CameraShake
	}
	if o.ForwardMomentum != nil {
		cfg.ForwardMomentum = *o.ForwardMomentum
	}
	if o.TransitionDuration != nil {
		cfg.TransitionDuration = *o.TransitionDuration
	}
}

// LoadLevelDirector 从YAML文件加载关卡导演表
// 参数：
//
//	filepath - 配置文件路径
//
// 返回：
//
//	*LevelDirector - 解析并验证后的导演表
//	error - 文件读取、解析或验证失败时返回错误
func LoadLevelDirector(filepath string) (*LevelDirector, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level director file %s: %w", filepath, err)
	}

	director, err := ParseLevelDirector(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load level director from %s: %w", filepath, err)
	}
	return director, nil
}

// ParseLevelDirector 从YAML数据解析关卡导演表
// 用于嵌入资源（embedded.ReadFile）和测试
func ParseLevelDirector(data []byte) (*LevelDirector, error) {
	var director LevelDirector
	if err := yaml.Unmarshal(data, &director); err != nil {
		return nil, fmt.Errorf("failed to parse level director YAML: %w", err)
	}

	applyDirectorDefaults(&director)

	if err := validateLevelDirector(&director); err != nil {
		return nil, fmt.Errorf("invalid level director: %w", err)
	}

	return &director, nil
}

// applyDirectorDefaults 为基础配置中缺失的字段设置默认值
func applyDirectorDefaults(director *LevelDirector) {
	base := &director.Base
	if base.Type == "" {
		base.Type = types.SegmentNormal
	}
	if base.Biome == "" {
		base.Biome = types.BiomeSummer
	}
	if base.RockDensity == "" {
		base.RockDensity = types.RockDensityLow
	}
	if base.SegmentLengthMultiplier == 0 {
		base.SegmentLengthMultiplier = 1.0
	}
	if base.FlowSpeed == 0 {
		base.FlowSpeed = 1.0
	}
	if base.TreeDensity == 0 {
		base.TreeDensity = 1.0
	}
	if base.ForwardMomentum == 0 {
		base.ForwardMomentum = 1.0
	}
}

// validateLevelDirector 验证导演表的完整性
// 非法配置属于编写错误，在加载时拒绝，运行时不再检查
func validateLevelDirector(director *LevelDirector) error {
	if err := validateSegmentConfig(&director.Base); err != nil {
		return fmt.Errorf("base: %w", err)
	}

	for i := range director.Rules {
		rule := &director.Rules[i]
		if rule.From < 0 {
			return fmt.Errorf("rule %d (%s): from must be >= 0, got %d", i, rule.Name, rule.From)
		}
		if rule.To != nil && *rule.To < rule.From {
			return fmt.Errorf("rule %d (%s): to (%d) must be >= from (%d)", i, rule.Name, *rule.To, rule.From)
		}

		// 覆盖后的结果也必须合法
		merged := director.Base
		rule.Override.apply(&merged)
		if err := validateSegmentConfig(&merged); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}
	}

	return nil
}

func validateSegmentConfig(cfg *SegmentConfig) error {
	if !cfg.Type.IsValid() {
		return fmt.Errorf("unknown segment type %q", cfg.Type)
	}
	if !cfg.Biome.IsValid() {
		return fmt.Errorf("unknown biome %q", cfg.Biome)
	}
	if !cfg.RockDensity.IsValid() {
		return fmt.Errorf("rockDensity must be one of: low, high, got %q", cfg.RockDensity)
	}
	if cfg.Width <= 0 {
		return fmt.Errorf("width must be positive, got %v", cfg.Width)
	}
	if cfg.SegmentLengthMultiplier <= 0 {
		return fmt.Errorf("segmentLengthMultiplier must be positive, got %v", cfg.SegmentLengthMultiplier)
	}
	if cfg.ParticleCount < 0 {
		return fmt.Errorf("particleCount cannot be negative, got %d", cfg.ParticleCount)
	}
	if cfg.TreeDensity < 0 {
		return fmt.Errorf("treeDensity cannot be negative, got %v", cfg.TreeDensity)
	}
	if cfg.TransitionDuration < 0 {
		return fmt.Errorf("transitionDuration cannot be negative, got %v", cfg.TransitionDuration)
	}
	return nil
}
