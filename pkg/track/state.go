package track

import (
	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// NoTrigger 表示尚未对任何末端触发过生成
const NoTrigger = -1

// StreamingState 流式生成的全部可变状态（一次游戏会话一个实例）
//
// 只由 TrackStreamingSystem 在帧更新回调中同步修改，因此无需加锁。
type StreamingState struct {
	// ActiveSegments 活动段，最旧的在前，ID 严格递增且连续
	ActiveSegments []*Segment
	// LastGeneratedID 最近生成的段ID
	LastGeneratedID int
	// MeanderPhase 蜿蜒相位累加器，跨生成调用延续，运行中从不重置
	MeanderPhase float64
	// LastReportedBiome 上次通知的群系（去重用）
	LastReportedBiome types.Biome
	// LastTriggeredTailID 上次触发生成时的末端段ID
	LastTriggeredTailID int
}

// 初始两段的控制点（起步区 + 第一个大弯）
var seedControlPoints = [][]utils.Vec3{
	{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: -20},
		{X: 5, Y: -2, Z: -50},
		{X: 10, Y: -5, Z: -80},
	},
	{
		{X: 10, Y: -5, Z: -80},
		{X: 5, Y: -10, Z: -100},
		{X: -10, Y: -15, Z: -130},
		{X: -20, Y: -20, Z: -160},
	},
}

// NewStreamingState 创建带有两段初始赛道（ID 0、1）的状态
func NewStreamingState(director *config.LevelDirector) *StreamingState {
	state := &StreamingState{
		ActiveSegments:      make([]*Segment, 0, len(seedControlPoints)),
		LastTriggeredTailID: NoTrigger,
	}
	for id, pts := range seedControlPoints {
		cp := make([]utils.Vec3, len(pts))
		copy(cp, pts)
		state.ActiveSegments = append(state.ActiveSegments, &Segment{
			ID:            id,
			ControlPoints: cp,
			Config:        director.ConfigFor(id),
		})
		state.LastGeneratedID = id
	}
	return state
}

// Newest 返回最新的活动段
func (s *StreamingState) Newest() *Segment {
	if len(s.ActiveSegments) == 0 {
		return nil
	}
	return s.ActiveSegments[len(s.ActiveSegments)-1]
}

// Oldest 返回最旧的活动段
func (s *StreamingState) Oldest() *Segment {
	if len(s.ActiveSegments) == 0 {
		return nil
	}
	return s.ActiveSegments[0]
}

// Find 按ID查找活动段
func (s *StreamingState) Find(id int) *Segment {
	if len(s.ActiveSegments) == 0 {
		return nil
	}
	// ID 连续，直接按偏移定位
	idx := id - s.ActiveSegments[0].ID
	if idx < 0 || idx >= len(s.ActiveSegments) {
		return nil
	}
	return s.ActiveSegments[idx]
}

// EvictOldest 丢弃最旧的段并返回它
func (s *StreamingState) EvictOldest() *Segment {
	if len(s.ActiveSegments) == 0 {
		return nil
	}
	oldest := s.ActiveSegments[0]
	s.ActiveSegments[0] = nil
	s.ActiveSegments = s.ActiveSegments[1:]
	return oldest
}
