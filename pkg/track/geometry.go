package track

import (
	"math"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/utils"
)

// 网格横向细分数
const (
	FloorColumns = 40
	WallColumns  = 20
	WaterColumns = 4
)

// SegmentGeometry 一段赛道的全部网格
type SegmentGeometry struct {
	Floor *Mesh // 可行走地面（同时作为碰撞体）
	Wall  *Mesh // 背景壁壳（同时作为碰撞体）
	Water *Mesh // 水面条带
}

// Synthesizer 截面几何合成器
// 无状态；输出只取决于段的控制点和配置
type Synthesizer struct{}

// NewSynthesizer 创建几何合成器
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Build 生成段的地面、壁壳和水面网格
func (s *Synthesizer) Build(seg *Segment) SegmentGeometry {
	return SegmentGeometry{
		Floor: s.BuildFloor(seg),
		Wall:  s.BuildWallShell(seg),
		Water: s.BuildWaterSurface(seg),
	}
}

// sectionFrames 预先计算每一行的样条点和横向方向
type sectionFrame struct {
	point    utils.Vec3
	binormal utils.Vec3
	zLocal   float64
}

func sectionFrames(spline *utils.Spline, length float64, rows int) []sectionFrame {
	frames := make([]sectionFrame, rows+1)
	for iz := 0; iz <= rows; iz++ {
		t := float64(iz) / float64(rows)
		point, _, binormal := spline.Frame(t)
		frames[iz] = sectionFrame{
			point:    point,
			binormal: binormal,
			zLocal:   -length/2 + length*t,
		}
	}
	return frames
}

// subdivisions 按长度计算纵向细分数，至少为 1
func subdivisions(length, unit float64) int {
	n := int(math.Floor(length / unit))
	if n < 1 {
		return 1
	}
	return n
}

// place 在局部坐标系中放置截面点：中心点 + 横向偏移 + 竖直高度
func (f sectionFrame) place(xLocal, height float64) utils.Vec3 {
	return f.point.Add(f.binormal.Scale(xLocal)).Add(utils.WorldUp.Scale(height))
}

// BuildFloor 生成地面高度场网格
// 每个顶点附带干燥度，颜色强度 = 0.4 + 0.6 × 干燥度
func (s *Synthesizer) BuildFloor(seg *Segment) *Mesh {
	cs := seg.CrossSection()
	spline := seg.Spline()
	length := spline.Length()
	rows := subdivisions(length, 1)
	frames := sectionFrames(spline, length, rows)

	width := cs.CanyonWidth
	heights := make([]float64, 0, (FloorColumns+1)*(rows+1))

	m := gridMesh(FloorColumns, rows, func(ix, iz int) utils.Vec3 {
		f := frames[iz]
		x := -width/2 + width*float64(ix)/FloorColumns
		h := cs.FloorHeight(x, f.zLocal)
		heights = append(heights, h)
		return f.place(x, h)
	})

	m.Dryness = make([]float32, len(heights))
	m.Colors = make([]float32, 0, len(heights)*3)
	for i, h := range heights {
		d := Dryness(h)
		m.Dryness[i] = float32(d)
		intensity := float32(0.4 + 0.6*d)
		m.Colors = append(m.Colors, intensity, intensity, intensity)
	}
	return m
}

// BuildWallShell 生成峡谷背景壁壳
func (s *Synthesizer) BuildWallShell(seg *Segment) *Mesh {
	cs := seg.CrossSection()
	spline := seg.Spline()
	length := spline.Length()
	rows := subdivisions(length, 2)
	frames := sectionFrames(spline, length, rows)

	width := cs.CanyonWidth * config.WallShellWidthScale

	return gridMesh(WallColumns, rows, func(ix, iz int) utils.Vec3 {
		f := frames[iz]
		x := -width/2 + width*float64(ix)/WallColumns
		return f.place(x, cs.WallShellHeight(x, f.zLocal))
	})
}

// BuildWaterSurface 生成水面条带（水道宽度，高于中心线 WaterLevel）
func (s *Synthesizer) BuildWaterSurface(seg *Segment) *Mesh {
	cs := seg.CrossSection()
	spline := seg.Spline()
	length := spline.Length()
	rows := subdivisions(length, 2)
	frames := sectionFrames(spline, length, rows)

	width := cs.WaterWidth

	return gridMesh(WaterColumns, rows, func(ix, iz int) utils.Vec3 {
		f := frames[iz]
		x := -width/2 + width*float64(ix)/WaterColumns
		return f.place(x, cs.WaterLevel)
	})
}
