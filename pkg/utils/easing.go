package utils

import "math"

// 缓动曲线
//
// 用于段切换时 flowSpeed 等参数的过渡。输入为过渡进度 t ∈ [0, 1]，
// 超出范围的进度先被钳制，输出 ∈ [0, 1] 且端点固定：f(0)=0，f(1)=1。

// EasingFunc 缓动曲线
type EasingFunc func(t float64) float64

// EasingDefault 未知名称时使用的曲线名
const EasingDefault = "easeInOut"

// easings 段配置里可用的曲线名称
var easings = map[string]EasingFunc{
	"linear":       EaseLinear,
	"easeIn":       EaseInQuad,
	"easeOut":      EaseOutQuad,
	"easeInCubic":  EaseInCubic,
	"easeOutCubic": EaseOutCubic,
	"easeInOut":    EaseInOutCubic,
	"easeOutExpo":  EaseOutExpo,
}

// EasingByName 按名称返回缓动曲线，未知名称回退到 easeInOut
// 返回的函数会先把输入钳制到 [0, 1]
func EasingByName(name string) EasingFunc {
	fn, ok := easings[name]
	if !ok {
		fn = easings[EasingDefault]
	}
	return func(t float64) float64 {
		return fn(Clamp(t, 0, 1))
	}
}

// EaseLinear 匀速
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 快速进入新状态后缓慢收尾：1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseInOutCubic 两端平缓，默认的流速过渡曲线
//
//	t < 0.5:  4t³
//	t >= 0.5: 1 - (2 - 2t)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutExpo 1 - 2^(-10t)，t=1 时精确返回 1
func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

// Lerp 在 a 和 b 之间线性插值
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
