package components

import "github.com/gonewx/watershed/pkg/utils"

// CameraComponent 沿赛道行进的镜头
// 位置由所在段和段内参数 T 决定，速度随段的 flowSpeed 缓动变化
type CameraComponent struct {
	// SegmentID 镜头当前所在段
	SegmentID int
	// T 段内样条参数 [0, 1]
	T float64

	// Position 世界坐标（含抖动）
	Position utils.Vec3
	// Direction 前进方向（单位向量）
	Direction utils.Vec3

	// BaseSpeed 基础速度（世界单位/秒）
	BaseSpeed float64

	// 水流速度倍率在段切换时从 FlowFrom 缓动到 FlowTo
	FlowFrom float64
	FlowTo   float64
	// TransitionElapsed 已经过的过渡时间（秒）
	TransitionElapsed float64
	// TransitionDuration 过渡总时长（秒），取目标段的配置
	TransitionDuration float64

	// ShakeAmplitude 当前段的镜头抖动幅度
	ShakeAmplitude float64
	// ShakeTime 抖动相位累计时间
	ShakeTime float64

	// EasingType 过渡缓动类型：
	// - "linear": 线性
	// - "easeInOut": 三次缓入缓出
	// - "easeOut": 二次缓出
	EasingType string

	// Paused 暂停行进
	Paused bool
}
