package track

import (
	"math"
	"reflect"
	"testing"

	"github.com/gonewx/watershed/pkg/types"
)

var groundCategories = []types.PlacementCategory{
	types.CategoryRock,
	types.CategoryTree,
	types.CategoryDebris,
	types.CategoryGrass,
	types.CategoryReed,
	types.CategoryDriftwood,
}

// TestSampleUngenerated 测试停放段返回每个类别的空集合
func TestSampleUngenerated(t *testing.T) {
	sampler := NewSampler(2)

	for _, seg := range []*Segment{nil, {ID: 3}, {ID: 4, ControlPoints: straightSegment(4, 10).ControlPoints[:1]}} {
		p := sampler.Sample(seg)
		if p.Total() != 0 {
			t.Errorf("未生成段的装饰物数量 = %d, 期望 0", p.Total())
		}
		for _, c := range types.AllPlacementCategories() {
			entries, ok := p[c]
			if !ok || entries == nil {
				t.Errorf("类别 %s 缺少空集合", c)
			}
		}
	}
}

// TestSampleDeterministic 测试同一段重复采样结果完全一致
func TestSampleDeterministic(t *testing.T) {
	course := buildCourse(20)

	for _, index := range []int{0, 5, 14, 16, 20} {
		seg := course[index]
		a := NewSampler(2).Sample(seg)
		b := NewSampler(2).Sample(seg)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("段 %d 两次采样结果不同", index)
		}
		if a.Total() == 0 {
			t.Errorf("段 %d 没有任何装饰物", index)
		}
	}
}

// TestSampleHeightAgreement 测试装饰物与地面高度函数一致
func TestSampleHeightAgreement(t *testing.T) {
	course := buildCourse(18)
	sampler := NewSampler(2)

	for _, index := range []int{0, 1, 7, 13, 16} {
		seg := course[index]
		spline := seg.Spline()
		cs := seg.CrossSection()

		for category, entries := range sampler.Sample(seg) {
			for i, e := range entries {
				want := spline.Point(e.T).Y + cs.FloorHeight(e.XLocal, e.ZLocal)
				got := e.Position.Y - e.Elevation
				if math.Abs(got-want) > 1e-6 {
					t.Fatalf("段 %d 的 %s[%d] 底部高度 %v 与地形 %v 不一致", index, category, i, got, want)
				}
			}
		}
	}
}

// TestSampleGroundCategories 测试地面类别贴地并且不超出地面网格
func TestSampleGroundCategories(t *testing.T) {
	course := buildCourse(20)
	sampler := NewSampler(2)

	for index, seg := range course {
		half := seg.CrossSection().HalfWidth()
		p := sampler.Sample(seg)
		for _, c := range groundCategories {
			for i, e := range p[c] {
				if e.Elevation != 0 {
					t.Errorf("段 %d 的 %s[%d] 高度偏移 = %v, 期望 0", index, c, i, e.Elevation)
				}
				if math.Abs(e.XLocal) > half+1e-9 {
					t.Errorf("段 %d 的 %s[%d] 横向偏移 %v 超出半宽 %v", index, c, i, e.XLocal, half)
				}
			}
		}
	}
}

// TestSampleCategoryGating 测试受段类型和生物群系控制的类别
func TestSampleCategoryGating(t *testing.T) {
	course := buildCourse(20)
	sampler := NewSampler(2)

	t.Run("鱼只出现在湖面段", func(t *testing.T) {
		for index, seg := range course {
			n := len(sampler.Sample(seg)[types.CategoryFish])
			if seg.Config.Type != types.SegmentPond && n != 0 {
				t.Errorf("非湖面段 %d 出现 %d 条鱼", index, n)
			}
		}
		fish := 0
		for _, index := range []int{16, 17, 18} {
			fish += len(sampler.Sample(course[index])[types.CategoryFish])
		}
		if fish == 0 {
			t.Error("湖面段没有任何鱼")
		}
	})

	t.Run("秋季河段没有鸟", func(t *testing.T) {
		for _, index := range []int{15, 19, 20} {
			if n := len(sampler.Sample(course[index])[types.CategoryBird]); n != 0 {
				t.Errorf("秋季段 %d 出现 %d 只鸟", index, n)
			}
		}
	})

	t.Run("鱼在水面以下", func(t *testing.T) {
		for _, index := range []int{16, 17, 18} {
			seg := course[index]
			spline := seg.Spline()
			for i, e := range sampler.Sample(seg)[types.CategoryFish] {
				surface := spline.Point(e.T).Y + seg.CrossSection().WaterLevel
				if math.Abs(e.Position.Y-(surface-0.5)) > 1e-6 {
					t.Errorf("段 %d 第 %d 条鱼高度 %v, 期望 %v", index, i, e.Position.Y, surface-0.5)
				}
			}
		}
	})
}

// TestSampleRuleIndependence 测试前面规则的成败不影响后面的类别
func TestSampleRuleIndependence(t *testing.T) {
	seg := buildCourse(6)[6]

	always := NewSampler(2)
	always.rules[0].chance = func(*Segment) float64 { return 1 }
	never := NewSampler(2)
	never.rules[0].chance = func(*Segment) float64 { return 0 }

	a := always.Sample(seg)
	b := never.Sample(seg)

	if len(b[types.CategoryRock]) != 0 {
		t.Errorf("概率为 0 时仍生成了 %d 块岩石", len(b[types.CategoryRock]))
	}
	if len(a[types.CategoryRock]) == 0 {
		t.Error("概率为 1 时没有生成岩石")
	}
	for _, c := range types.AllPlacementCategories()[1:] {
		if !reflect.DeepEqual(a[c], b[c]) {
			t.Errorf("类别 %s 受到岩石规则结果的影响", c)
		}
	}
}

// TestSampleDensityScalesWithLength 测试装饰物数量随段长度增长
func TestSampleDensityScalesWithLength(t *testing.T) {
	sampler := NewSampler(2)
	sampler.rules[0].chance = func(*Segment) float64 { return 1 }

	short := sampler.Sample(straightSegment(3, 21))
	long := sampler.Sample(straightSegment(3, 81))

	// ceil(L/2) 步，每一步两侧各一块
	if got := len(short[types.CategoryRock]); got != 2*11 {
		t.Errorf("21 单位长段岩石数 = %d, 期望 22", got)
	}
	if got := len(long[types.CategoryRock]); got != 2*41 {
		t.Errorf("81 单位长段岩石数 = %d, 期望 82", got)
	}
}

// TestNewSamplerDefaultStep 测试非法步长回退到默认值
func TestNewSamplerDefaultStep(t *testing.T) {
	if s := NewSampler(0); s.stepLength != 2.0 {
		t.Errorf("stepLength = %v, 期望 2.0", s.stepLength)
	}
}
