// Package types 定义共享的基础类型
package types

// SegmentType 定义赛道段的类型
// 类型决定生成器使用哪套转向/坡度规则，以及截面的水道宽度
type SegmentType string

const (
	SegmentNormal    SegmentType = "normal"    // 普通河段（蜿蜒下行）
	SegmentApproach  SegmentType = "approach"  // 瀑布前的加速段
	SegmentWaterfall SegmentType = "waterfall" // 瀑布（近乎垂直下落）
	SegmentSplash    SegmentType = "splash"    // 瀑布落水区（群系过渡）
	SegmentPond      SegmentType = "pond"      // 平静的湖面
)

// IsValid 检查段类型是否为已知值
func (t SegmentType) IsValid() bool {
	switch t {
	case SegmentNormal, SegmentApproach, SegmentWaterfall, SegmentSplash, SegmentPond:
		return true
	}
	return false
}

// Biome 定义群系（视觉/环境主题）
type Biome string

const (
	BiomeSummer Biome = "summer" // 夏季
	BiomeAutumn Biome = "autumn" // 秋季
)

// IsValid 检查群系是否为已知值
func (b Biome) IsValid() bool {
	return b == BiomeSummer || b == BiomeAutumn
}

// RockDensity 岩石密度档位
type RockDensity string

const (
	RockDensityLow  RockDensity = "low"
	RockDensityHigh RockDensity = "high"
)

// IsValid 检查岩石密度是否为已知值
func (r RockDensity) IsValid() bool {
	return r == RockDensityLow || r == RockDensityHigh
}
