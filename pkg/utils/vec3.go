package utils

import "math"

// Vec3 三维向量（世界坐标，Y 轴向上，赛道沿 -Z 方向延伸）
type Vec3 struct {
	X, Y, Z float64
}

// MinDirectionLength 方向向量归一化前的最小长度
// 低于该值视为退化向量，使用回退方向
const MinDirectionLength = 1e-6

var (
	// WorldUp 世界坐标向上方向
	WorldUp = Vec3{0, 1, 0}
	// Forward 赛道前进方向
	Forward = Vec3{0, 0, -1}
)

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Distance 返回两点间距离
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// NormalizeOr 归一化向量；长度低于 MinDirectionLength 时返回 fallback
func (v Vec3) NormalizeOr(fallback Vec3) Vec3 {
	l := v.Length()
	if l < MinDirectionLength || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Scale(1 / l)
}

// Normalize 归一化向量，退化时回退到赛道前进方向
func (v Vec3) Normalize() Vec3 {
	return v.NormalizeOr(Forward)
}

// Lerp3 在两个向量之间线性插值
func Lerp3(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

// Clamp 将 v 限制在 [lo, hi] 范围内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
