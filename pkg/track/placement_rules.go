package track

import (
	"math"

	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// maxFlockSize 单个鸟群最多的鸟数
const maxFlockSize = 7

// placementRule 一条放置规则
// draws 为每次求值固定消耗的随机数个数，d[0] 是概率判定值
type placementRule struct {
	category types.PlacementCategory
	draws    int
	chance   func(seg *Segment) float64
	place    func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry
}

func uniformScale(s float64) utils.Vec3 {
	return utils.Vec3{X: s, Y: s, Z: s}
}

func yaw(r float64) utils.Vec3 {
	return utils.Vec3{Y: r * math.Pi * 2}
}

func isPond(seg *Segment) bool {
	return seg.Config.Type == types.SegmentPond
}

// defaultPlacementRules 返回按求值顺序排列的规则
// 修改顺序或任何规则的 draws 都会改变已有段的装饰结果
func defaultPlacementRules() []placementRule {
	return []placementRule{
		{
			category: types.CategoryRock,
			draws:    6,
			chance: func(seg *Segment) float64 {
				if isPond(seg) {
					return 0.3
				}
				if seg.Config.RockDensity == types.RockDensityHigh {
					return 0.7
				}
				return 0.4
			},
			place: func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := c.groundOffset(side, c.cs.BankStart()+1+d[1]*4)
				rot := utils.Vec3{X: d[3] * math.Pi, Y: d[4] * math.Pi, Z: d[5] * math.Pi}
				return append(out, c.entry(types.CategoryRock, x, 0, rot, uniformScale(0.8+d[2]*0.8)))
			},
		},
		{
			category: types.CategoryTree,
			draws:    4,
			chance: func(seg *Segment) float64 {
				base := 0.3
				if seg.Config.Biome == types.BiomeAutumn || isPond(seg) {
					base = 0.6
				}
				return base * seg.Config.TreeDensity
			},
			place: func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := c.groundOffset(side, c.cs.BankStart()+4+d[1]*8)
				return append(out, c.entry(types.CategoryTree, x, 0, yaw(d[3]), uniformScale(1.5+d[2])))
			},
		},
		{
			category: types.CategoryDebris,
			draws:    2,
			chance:   func(*Segment) float64 { return 0.5 },
			place: func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := c.groundOffset(side, c.cs.BankStart()+d[1]*2)
				return append(out, c.entry(types.CategoryDebris, x, 0, utils.Vec3{}, uniformScale(0.3)))
			},
		},
		{
			category: types.CategoryGrass,
			draws:    3,
			chance:   func(*Segment) float64 { return 0.4 },
			place: func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := c.groundOffset(side, c.cs.BankStart()+d[1]*4)
				return append(out, c.entry(types.CategoryGrass, x, 0, yaw(d[2]), uniformScale(0.5)))
			},
		},
		{
			category: types.CategoryReed,
			draws:    4,
			chance:   func(*Segment) float64 { return 0.5 },
			place: func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := c.groundOffset(side, c.cs.BankStart()+(d[1]-0.2)*1.5)
				return append(out, c.entry(types.CategoryReed, x, 0, yaw(d[3]), uniformScale(0.8+d[2]*0.4)))
			},
		},
		{
			category: types.CategoryDriftwood,
			draws:    5,
			chance:   func(*Segment) float64 { return 0.3 },
			place: func(c *sampleContext, side float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := c.groundOffset(side, c.cs.BankStart()+(d[1]-0.4)*3)
				rot := utils.Vec3{X: (d[2] - 0.5) * 0.5, Y: d[3] * math.Pi * 2, Z: (d[4] - 0.5) * 0.5}
				return append(out, c.entry(types.CategoryDriftwood, x, 0, rot, uniformScale(1)))
			},
		},
		{
			category: types.CategoryLeaf,
			draws:    4,
			chance: func(seg *Segment) float64 {
				if seg.Config.Biome == types.BiomeAutumn {
					return 0.8
				}
				return 0.2
			},
			place: func(c *sampleContext, _ float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := (d[1] - 0.5) * c.cs.CanyonWidth * 0.8
				return append(out, c.entry(types.CategoryLeaf, x, 15+d[2]*10, yaw(d[3]), uniformScale(1)))
			},
		},
		{
			category: types.CategoryFirefly,
			draws:    3,
			chance:   func(*Segment) float64 { return 0.2 },
			place: func(c *sampleContext, _ float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := (d[1] - 0.5) * c.cs.CanyonWidth * 0.9
				return append(out, c.entry(types.CategoryFirefly, x, 1+d[2]*3, utils.Vec3{}, uniformScale(1)))
			},
		},
		{
			// 鸟群：roll、数量、中心偏移，再为每只可能的鸟预留两个值
			category: types.CategoryBird,
			draws:    3 + 2*maxFlockSize,
			chance: func(seg *Segment) float64 {
				if seg.Config.Biome != types.BiomeAutumn || isPond(seg) {
					return 0.02
				}
				return 0
			},
			place: func(c *sampleContext, _ float64, d []float64, out []PlacementEntry) []PlacementEntry {
				size := 3 + int(math.Floor(d[1]*5))
				center := (d[2] - 0.5) * c.cs.CanyonWidth * 0.5
				for b := 0; b < size; b++ {
					dx, dy := d[3+2*b], d[4+2*b]
					x := center + (dx-0.5)*5
					out = append(out, c.entry(types.CategoryBird, x, 12+(dy-0.5)*4, utils.Vec3{}, uniformScale(1)))
				}
				return out
			},
		},
		{
			category: types.CategoryFish,
			draws:    3,
			chance: func(seg *Segment) float64 {
				if isPond(seg) {
					return 0.4
				}
				return 0
			},
			place: func(c *sampleContext, _ float64, d []float64, out []PlacementEntry) []PlacementEntry {
				x := (d[1] - 0.5) * c.cs.WaterWidth * 0.8
				// 鱼位于水面下 0.5
				elevation := c.cs.WaterLevel - 0.5 - c.cs.FloorHeight(x, c.zLocal)
				return append(out, c.entry(types.CategoryFish, x, elevation, yaw(d[2]), uniformScale(1)))
			},
		},
	}
}
