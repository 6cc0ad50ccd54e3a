// Package track 实现程序化河道赛道的生成核心
//
// 包含段生成器（Generator）、放置采样器（Sampler）与截面几何合成器（Synthesizer）。
// 所有函数都是同步的纯计算，不做 I/O；退化输入被钳制到安全值而不是返回错误。
// 流式窗口的管理在 systems.TrackStreamingSystem 中。
package track

import (
	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// Segment 一段生成的赛道
// ControlPoints 的首点与上一段的末点严格相等（连续性）
type Segment struct {
	ID            int                  // 段ID，单调递增，一次运行内不复用
	ControlPoints []utils.Vec3         // 控制点折线（>= 2 个点）
	Config        config.SegmentConfig // 关卡导演给出的配置
}

// StreamData 供漂浮物等协作者使用的水流信息
type StreamData struct {
	Start     utils.Vec3 // 段起点
	Direction utils.Vec3 // 起点切线
	Length    float64    // 段长度
}

// IsGenerated 段是否已有可用的控制点
// 少于 2 个控制点的段视为尚未生成，所有派生数据都为空
func (s *Segment) IsGenerated() bool {
	return s != nil && len(s.ControlPoints) >= 2
}

// Spline 返回插值控制点的样条（每次调用重新构建，不缓存）
// 湖面段使用低张力得到更平缓的弯道
func (s *Segment) Spline() *utils.Spline {
	tension := config.DefaultSplineTension
	if s.Config.Type == types.SegmentPond {
		tension = config.PondSplineTension
	}
	return utils.NewSpline(s.ControlPoints, tension)
}

// Length 返回样条长度
func (s *Segment) Length() float64 {
	if !s.IsGenerated() {
		return 0
	}
	return s.Spline().Length()
}

// Head 返回首个控制点
func (s *Segment) Head() utils.Vec3 {
	if len(s.ControlPoints) == 0 {
		return utils.Vec3{}
	}
	return s.ControlPoints[0]
}

// Tail 返回最后一个控制点
func (s *Segment) Tail() utils.Vec3 {
	if len(s.ControlPoints) == 0 {
		return utils.Vec3{}
	}
	return s.ControlPoints[len(s.ControlPoints)-1]
}

// CrossSection 返回该段的截面参数
func (s *Segment) CrossSection() CrossSection {
	return NewCrossSection(s.Config)
}

// StreamData 返回水流起点、方向和长度
func (s *Segment) StreamData() (StreamData, bool) {
	if !s.IsGenerated() {
		return StreamData{}, false
	}
	spline := s.Spline()
	return StreamData{
		Start:     spline.Point(0),
		Direction: spline.Tangent(0),
		Length:    spline.Length(),
	}, true
}

// WaterfallAnchor 返回瀑布粒子的锚点（样条中点）
// 非瀑布段返回 false
func (s *Segment) WaterfallAnchor() (utils.Vec3, bool) {
	if !s.IsGenerated() || s.Config.Type != types.SegmentWaterfall {
		return utils.Vec3{}, false
	}
	return s.Spline().Point(0.5), true
}

// DistanceTo 返回 pos 到最近控制点的距离
func (s *Segment) DistanceTo(pos utils.Vec3) float64 {
	best := -1.0
	for _, p := range s.ControlPoints {
		d := p.Distance(pos)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
