package track

import (
	"math"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// 生成器参数
const (
	// MeanderPhaseStep 每个扩展步的蜿蜒相位增量
	MeanderPhaseStep = 0.35

	// 每步前进距离的随机范围（乘以 segmentLengthMultiplier）
	MinStepDistance = 15.0
	MaxStepDistance = 25.0

	turnScale      = 0.25 // 蜿蜒偏置作用到 direction.x 的比例
	turnJitter     = 0.05 // direction.x 的均匀抖动幅度
	verticalPull   = 0.5  // direction.y 向 verticalBias 收敛的速度
	verticalJitter = 0.1  // direction.y 的随机扰动幅度

	// riverMinForward 普通河段 direction.z 的最小前进分量（取负值方向）
	riverMinForward = 0.55
	// pondMinForward 湖面段的最小前进分量
	pondMinForward = 0.7
	// waterfallJitter 瀑布段横向抖动
	waterfallJitter = 0.05

	// drawsPerStep 每个扩展步固定消耗的随机数个数
	drawsPerStep = 3
)

// slopeLimits 各类型 direction.y 的下限和上限
// 上限为负：除湖面外的河段永远不会向上
func slopeLimits(t types.SegmentType) (floor, ceiling float64) {
	switch t {
	case types.SegmentApproach:
		return -0.6, -0.08
	case types.SegmentSplash:
		return -0.3, -0.01
	case types.SegmentPond:
		return -0.02, 0
	default:
		return -0.45, -0.03
	}
}

// Generator 段生成器
// 以上一段的末端几何和关卡导演配置为输入，用受约束的随机游走延伸路径
type Generator struct {
	director *config.LevelDirector
	steps    int
	runSeed  uint64
}

// NewGenerator 创建段生成器
// 参数：
//   - director: 关卡导演
//   - steps: 每次生成追加的控制点数量（小于 1 时按 1 处理）
//   - runSeed: 本次运行的种子；同一种子、同一状态下生成结果完全一致
func NewGenerator(director *config.LevelDirector, steps int, runSeed uint64) *Generator {
	if steps < 1 {
		steps = 1
	}
	return &Generator{
		director: director,
		steps:    steps,
		runSeed:  runSeed,
	}
}

// Next 生成索引为 index 的新段
// 新段首点严格等于 prev 的末点；state.MeanderPhase 被推进 steps 次
func (g *Generator) Next(state *StreamingState, prev *Segment, index int) *Segment {
	cfg := g.director.ConfigFor(index)
	rng := utils.NewStream(utils.DeriveSeed(g.runSeed, uint64(index)))

	start := utils.Vec3{}
	if prev != nil {
		start = prev.Tail()
	}
	dir := initialDirection(prev)

	points := make([]utils.Vec3, 0, g.steps+1)
	points = append(points, start)
	pos := start

	var draws [drawsPerStep]float64
	for i := 0; i < g.steps; i++ {
		state.MeanderPhase += MeanderPhaseStep
		rng.Fill(draws[:])

		switch cfg.Type {
		case types.SegmentWaterfall:
			dir = waterfallDirection(cfg, draws[0])
		case types.SegmentPond:
			dir = pondDirection(dir, cfg, state.MeanderPhase, draws[1])
		default:
			dir = riverDirection(dir, cfg, state.MeanderPhase, draws[0], draws[1])
		}

		dist := (MinStepDistance + draws[2]*(MaxStepDistance-MinStepDistance)) * cfg.SegmentLengthMultiplier
		pos = pos.Add(dir.Scale(dist))
		points = append(points, pos)
	}

	return &Segment{
		ID:            index,
		ControlPoints: points,
		Config:        cfg,
	}
}

// initialDirection 上一段最后两个控制点的方向
func initialDirection(prev *Segment) utils.Vec3 {
	if !prev.IsGenerated() {
		return utils.Forward
	}
	n := len(prev.ControlPoints)
	return prev.ControlPoints[n-1].Sub(prev.ControlPoints[n-2]).Normalize()
}

// riverDirection 普通/加速/落水段的转向规则
func riverDirection(dir utils.Vec3, cfg config.SegmentConfig, phase, jx, jy float64) utils.Vec3 {
	turn := math.Sin(phase) * cfg.MeanderStrength
	dir.X += turn*turnScale + (jx-0.5)*turnJitter
	dir.Y += (cfg.VerticalBias-dir.Y)*verticalPull + (jy-0.5)*verticalJitter

	floor, ceiling := slopeLimits(cfg.Type)
	dir.Y = utils.Clamp(dir.Y, floor, ceiling)
	dir = dir.Normalize()

	return clampForward(dir, riverMinForward)
}

// pondDirection 湖面段：只保留平缓的蜿蜒，近乎水平
func pondDirection(dir utils.Vec3, cfg config.SegmentConfig, phase, jy float64) utils.Vec3 {
	turn := math.Sin(phase) * cfg.MeanderStrength
	dir.X += turn * turnScale * 0.6
	dir.Y = (jy - 0.5) * 0.02

	floor, ceiling := slopeLimits(types.SegmentPond)
	dir.Y = utils.Clamp(dir.Y, floor, ceiling)
	dir = dir.Normalize()

	return clampForward(dir, pondMinForward)
}

// waterfallDirection 瀑布段：近乎垂直下落，前进距离由 forwardMomentum 决定
func waterfallDirection(cfg config.SegmentConfig, jx float64) utils.Vec3 {
	return utils.Vec3{
		X: (jx - 0.5) * waterfallJitter,
		Y: -1,
		Z: -cfg.ForwardMomentum,
	}.Normalize()
}

// clampForward 保证 direction.z 至少有 minForward 的前进分量（-Z 方向）
// 钳制时按比例缩小 x、y，使结果仍为单位向量
func clampForward(dir utils.Vec3, minForward float64) utils.Vec3 {
	if dir.Z <= -minForward {
		return dir
	}
	rest := math.Hypot(dir.X, dir.Y)
	if rest < utils.MinDirectionLength {
		return utils.Forward
	}
	keep := math.Sqrt(1-minForward*minForward) / rest
	return utils.Vec3{X: dir.X * keep, Y: dir.Y * keep, Z: -minForward}.Normalize()
}
