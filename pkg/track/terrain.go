package track

import (
	"math"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// CrossSection 截面高度函数的参数
// 地面网格与装饰物放置共用同一个高度函数，装饰物因此总是贴合地形
type CrossSection struct {
	CanyonWidth float64 // 峡谷宽度（地面网格横向全宽）
	WaterWidth  float64 // 水道宽度
	WallHeight  float64 // 峡谷壁高度系数
	WaterLevel  float64 // 水面相对中心线高度
}

// NewCrossSection 由段配置构造截面参数
func NewCrossSection(cfg config.SegmentConfig) CrossSection {
	waterWidth := config.RiverWaterWidth
	if cfg.Type == types.SegmentPond {
		waterWidth = config.PondWaterWidth
	}
	return CrossSection{
		CanyonWidth: cfg.Width,
		WaterWidth:  waterWidth,
		WallHeight:  config.WallHeight,
		WaterLevel:  config.WaterLevel,
	}
}

// HalfWidth 地面网格的横向半宽
func (c CrossSection) HalfWidth() float64 {
	return c.CanyonWidth / 2
}

// BankStart 水道边缘（河岸起点）的横向距离
func (c CrossSection) BankStart() float64 {
	return c.WaterWidth / 2
}

// NormalizedDistance 横向距离相对峡谷半宽的归一化值
func (c CrossSection) NormalizedDistance(xLocal float64) float64 {
	reach := c.CanyonWidth * 0.45
	if reach <= 0 {
		return 0
	}
	return math.Abs(xLocal) / reach
}

// FloorHeight 截面高度函数
// 参数：
//   - xLocal: 相对路径中心线的横向偏移
//   - zLocal: 相对段中点的纵向距离（[-L/2, L/2]）
//
// 高度 = pow(归一化距离, 2.5) × 壁高，水道内衰减到 10%，
// 再叠加固定频率的正弦起伏（丘陵起伏 + 细碎岩石噪声）
func (c CrossSection) FloorHeight(xLocal, zLocal float64) float64 {
	dist := math.Abs(xLocal)
	nd := c.NormalizedDistance(xLocal)

	h := math.Pow(math.Max(0, nd), 2.5) * c.WallHeight
	if dist < c.BankStart() {
		h *= 0.1
	}

	// 丘陵起伏，只作用于河岸以外
	hill := math.Sin(zLocal*0.15) * math.Cos(xLocal*0.3) * 1.5
	h += hill * utils.Clamp(nd-c.BankStart()/(c.CanyonWidth*0.45), 0, 1)

	// 岩石噪声
	rock := math.Sin(zLocal*0.8+xLocal*0.5)*0.3 + math.Sin(zLocal*2.5+xLocal*1.2)*0.1
	h += rock * (0.5 + nd)

	return h
}

// Dryness 由地面高度推导的干燥度 [0, 1]，供渲染着色使用
func Dryness(height float64) float64 {
	return utils.Clamp((height-0.2)/2.5, 0, 1)
}

// WallShellHeight 背景壁壳高度（更平缓，有上限，无需可行走）
func (c CrossSection) WallShellHeight(xLocal, zLocal float64) float64 {
	h := 15 + math.Abs(xLocal)*0.5
	h += math.Sin(zLocal*0.1)*3 + math.Cos(xLocal*0.2)*2
	h -= 2
	return math.Min(h, config.WallShellCap)
}
