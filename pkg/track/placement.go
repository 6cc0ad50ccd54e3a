package track

import (
	"math"

	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// PlacementSeedMultiplier 段ID到放置种子的乘数
const PlacementSeedMultiplier = 1000

// PlacementEntry 一个装饰物的变换
type PlacementEntry struct {
	Category types.PlacementCategory
	Position utils.Vec3
	Rotation utils.Vec3 // 欧拉角（弧度，XYZ 顺序）
	Scale    utils.Vec3

	// Elevation 相对地形表面的高度；地面装饰物为 0
	Elevation float64
	// T、XLocal、ZLocal 采样时的样条参数和局部坐标
	T      float64
	XLocal float64
	ZLocal float64
}

// Placements 按类别分组的装饰物，组内顺序为沿路径的插入顺序
type Placements map[types.PlacementCategory][]PlacementEntry

// EmptyPlacements 返回每个类别都为空集合的结果
func EmptyPlacements() Placements {
	p := make(Placements, len(types.AllPlacementCategories()))
	for _, c := range types.AllPlacementCategories() {
		p[c] = []PlacementEntry{}
	}
	return p
}

// Total 返回所有类别的装饰物总数
func (p Placements) Total() int {
	n := 0
	for _, entries := range p {
		n += len(entries)
	}
	return n
}

// Sampler 放置采样器
//
// 对每个段按固定步长沿样条行走，在左右两侧依次对每条规则从同一个
// 种子流中取固定数量的随机数并与概率阈值比较。每条规则消耗的随机数
// 个数与成功与否无关，所以后面的类别不受前面类别结果影响；
// 但规则顺序本身决定输出，调整顺序会改变已生成的赛道。
type Sampler struct {
	stepLength float64
	rules      []placementRule
}

// NewSampler 创建放置采样器
// stepLength 为沿路径的采样间距（世界单位），保证密度与距离成正比
func NewSampler(stepLength float64) *Sampler {
	if stepLength <= 0 {
		stepLength = 2.0
	}
	return &Sampler{
		stepLength: stepLength,
		rules:      defaultPlacementRules(),
	}
}

// sampleContext 当前采样步的上下文
type sampleContext struct {
	seg      *Segment
	cs       CrossSection
	t        float64
	zLocal   float64
	point    utils.Vec3
	binormal utils.Vec3
}

// entry 在横向偏移 xLocal 处生成一个贴合地形（再抬高 elevation）的装饰物
func (c *sampleContext) entry(category types.PlacementCategory, xLocal, elevation float64, rotation, scale utils.Vec3) PlacementEntry {
	ground := c.cs.FloorHeight(xLocal, c.zLocal)
	pos := c.point.Add(c.binormal.Scale(xLocal)).Add(utils.WorldUp.Scale(ground + elevation))
	return PlacementEntry{
		Category:  category,
		Position:  pos,
		Rotation:  rotation,
		Scale:     scale,
		Elevation: elevation,
		T:         c.t,
		XLocal:    xLocal,
		ZLocal:    c.zLocal,
	}
}

// groundOffset 地面装饰物的横向偏移，限制在地面网格范围内
func (c *sampleContext) groundOffset(side, dist float64) float64 {
	return side * math.Min(dist, c.cs.HalfWidth())
}

// Sample 生成段的全部装饰物
// 尚未生成（停放）的段返回每个类别的空集合
func (s *Sampler) Sample(seg *Segment) Placements {
	out := EmptyPlacements()
	if !seg.IsGenerated() {
		return out
	}

	spline := seg.Spline()
	length := spline.Length()
	steps := int(math.Ceil(length / s.stepLength))
	if steps < 1 {
		steps = 1
	}

	rng := utils.NewStream(uint64(seg.ID) * PlacementSeedMultiplier)
	ctx := &sampleContext{seg: seg, cs: seg.CrossSection()}

	chances := make([]float64, len(s.rules))
	maxDraws := 0
	for i, r := range s.rules {
		chances[i] = r.chance(seg)
		if r.draws > maxDraws {
			maxDraws = r.draws
		}
	}
	buf := make([]float64, maxDraws)

	sides := [2]float64{-1, 1}
	for z := 0; z < steps; z++ {
		t := float64(z) / float64(steps)
		ctx.t = t
		ctx.zLocal = (t - 0.5) * length
		ctx.point, _, ctx.binormal = spline.Frame(t)

		for _, side := range sides {
			for i, r := range s.rules {
				d := buf[:r.draws]
				rng.Fill(d)
				if d[0] > 1.0-chances[i] {
					out[r.category] = r.place(ctx, side, d, out[r.category])
				}
			}
		}
	}

	return out
}
