package track

import (
	"math"
	"reflect"
	"testing"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/utils"
)

func newTestGenerator() *Generator {
	return NewGenerator(config.DefaultLevelDirector(), 3, 12345)
}

// TestGeneratorContinuity 测试新段首点等于上一段末点
func TestGeneratorContinuity(t *testing.T) {
	director := config.DefaultLevelDirector()
	state := NewStreamingState(director)
	gen := newTestGenerator()

	prev := state.Newest()
	for index := 2; index < 30; index++ {
		seg := gen.Next(state, prev, index)

		if seg.ControlPoints[0] != prev.Tail() {
			t.Fatalf("段 %d 首点 %+v 不等于段 %d 末点 %+v", index, seg.ControlPoints[0], prev.ID, prev.Tail())
		}
		if seg.ID != index {
			t.Errorf("段ID = %d, 期望 %d", seg.ID, index)
		}
		if len(seg.ControlPoints) != 4 {
			t.Errorf("段 %d 控制点数 = %d, 期望 4", index, len(seg.ControlPoints))
		}
		if seg.Config != director.ConfigFor(index) {
			t.Errorf("段 %d 配置与关卡导演不一致", index)
		}
		prev = seg
	}
}

// TestGeneratorMeanderPhase 测试相位累加器跨调用延续
func TestGeneratorMeanderPhase(t *testing.T) {
	state := NewStreamingState(config.DefaultLevelDirector())
	gen := newTestGenerator()

	seg := gen.Next(state, state.Newest(), 2)
	if math.Abs(state.MeanderPhase-3*MeanderPhaseStep) > 1e-12 {
		t.Errorf("第一次生成后相位 = %v, 期望 %v", state.MeanderPhase, 3*MeanderPhaseStep)
	}

	gen.Next(state, seg, 3)
	if math.Abs(state.MeanderPhase-6*MeanderPhaseStep) > 1e-12 {
		t.Errorf("第二次生成后相位 = %v, 期望 %v", state.MeanderPhase, 6*MeanderPhaseStep)
	}
}

// TestGeneratorDeterministic 测试相同种子、相同状态生成相同结果
func TestGeneratorDeterministic(t *testing.T) {
	director := config.DefaultLevelDirector()
	s1 := NewStreamingState(director)
	s2 := NewStreamingState(director)
	g1 := NewGenerator(director, 3, 99)
	g2 := NewGenerator(director, 3, 99)

	a := g1.Next(s1, s1.Newest(), 2)
	b := g2.Next(s2, s2.Newest(), 2)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("相同输入生成不同段:\n%+v\n%+v", a.ControlPoints, b.ControlPoints)
	}

	g3 := NewGenerator(director, 3, 100)
	s3 := NewStreamingState(director)
	c := g3.Next(s3, s3.Newest(), 2)
	if reflect.DeepEqual(a.ControlPoints, c.ControlPoints) {
		t.Error("不同运行种子生成了完全相同的段")
	}
}

// TestGeneratorDirectionRules 测试各类型的方向约束
func TestGeneratorDirectionRules(t *testing.T) {
	director := config.DefaultLevelDirector()
	gen := newTestGenerator()

	// 生成到 25 号段，覆盖所有规则
	state := NewStreamingState(director)
	prev := state.Newest()
	segments := make(map[int]*Segment)
	for index := 2; index <= 25; index++ {
		seg := gen.Next(state, prev, index)
		segments[index] = seg
		prev = seg
	}

	steps := func(seg *Segment) []utils.Vec3 {
		var out []utils.Vec3
		for i := 1; i < len(seg.ControlPoints); i++ {
			out = append(out, seg.ControlPoints[i].Sub(seg.ControlPoints[i-1]))
		}
		return out
	}

	t.Run("普通段始终下行且前进", func(t *testing.T) {
		for _, index := range []int{2, 5, 12, 13, 15, 20, 25} {
			for i, d := range steps(segments[index]) {
				if d.Y >= 0 {
					t.Errorf("段 %d 第 %d 步向上: %+v", index, i, d)
				}
				if d.Z >= 0 {
					t.Errorf("段 %d 第 %d 步没有前进: %+v", index, i, d)
				}
				dir := d.Normalize()
				if dir.Z > -riverMinForward+1e-9 {
					t.Errorf("段 %d 第 %d 步前进分量 %v 小于 %v", index, i, -dir.Z, riverMinForward)
				}
			}
		}
	})

	t.Run("瀑布近乎垂直", func(t *testing.T) {
		for i, d := range steps(segments[14]) {
			dir := d.Normalize()
			if dir.Y > -0.95 {
				t.Errorf("瀑布第 %d 步 direction.y = %v, 期望 < -0.95", i, dir.Y)
			}
			if math.Abs(dir.Z) > 0.2 {
				t.Errorf("瀑布第 %d 步 direction.z = %v, 期望前进很小", i, dir.Z)
			}
		}
	})

	t.Run("湖面近乎水平", func(t *testing.T) {
		for _, index := range []int{16, 17, 18} {
			for i, d := range steps(segments[index]) {
				dir := d.Normalize()
				if dir.Y > 0 || dir.Y < -0.02 {
					t.Errorf("湖面段 %d 第 %d 步 direction.y = %v, 期望在 [-0.02, 0]", index, i, dir.Y)
				}
			}
		}
	})

	t.Run("步长受倍率影响", func(t *testing.T) {
		for index, seg := range segments {
			mult := seg.Config.SegmentLengthMultiplier
			for i, d := range steps(seg) {
				l := d.Length()
				if l < MinStepDistance*mult-1e-9 || l > MaxStepDistance*mult+1e-9 {
					t.Errorf("段 %d 第 %d 步长度 %v 超出 [%v, %v]", index, i, l, MinStepDistance*mult, MaxStepDistance*mult)
				}
			}
		}
	})
}

// TestGeneratorDegenerateInput 测试退化输入不会产生 NaN
func TestGeneratorDegenerateInput(t *testing.T) {
	gen := newTestGenerator()

	cases := []struct {
		name string
		prev *Segment
	}{
		{"nil 上一段", nil},
		{"空控制点", &Segment{ID: 1}},
		{"重合控制点", &Segment{ID: 1, ControlPoints: []utils.Vec3{{1, 2, 3}, {1, 2, 3}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &StreamingState{LastTriggeredTailID: NoTrigger}
			seg := gen.Next(state, tc.prev, 2)
			want := utils.Vec3{}
			if tc.prev != nil {
				want = tc.prev.Tail()
			}
			if seg.ControlPoints[0] != want {
				t.Errorf("首点 = %+v, 期望 %+v", seg.ControlPoints[0], want)
			}
			for i, p := range seg.ControlPoints {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
					t.Fatalf("控制点 %d 含 NaN: %+v", i, p)
				}
			}
			if seg.Tail().Z >= seg.Head().Z {
				t.Errorf("退化输入下没有前进: head=%+v tail=%+v", seg.Head(), seg.Tail())
			}
		})
	}
}

// TestNewGeneratorClampsSteps 测试步数下限
func TestNewGeneratorClampsSteps(t *testing.T) {
	gen := NewGenerator(config.DefaultLevelDirector(), 0, 1)
	state := NewStreamingState(config.DefaultLevelDirector())
	seg := gen.Next(state, state.Newest(), 2)
	if len(seg.ControlPoints) != 2 {
		t.Errorf("控制点数 = %d, 期望 2", len(seg.ControlPoints))
	}
}
