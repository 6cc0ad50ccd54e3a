package utils

// Spline Catmull-Rom 样条（非闭合）
//
// 参数化按控制点索引均匀分布（t=0 位于首点，t=1 位于末点），不是按弧长。
// 端点处用镜像外推的虚拟控制点补齐，曲线严格经过每个控制点。
type Spline struct {
	points  []Vec3
	tension float64
}

// SplineLengthDivisions 计算曲线长度时的采样段数
const SplineLengthDivisions = 200

// tangentDelta 有限差分求切线的步长
const tangentDelta = 0.0001

// NewSpline 创建样条
// 参数：
//   - points: 控制点（不复制，调用方不得再修改）
//   - tension: 张力，0.5 为标准 Catmull-Rom，越小曲线越平缓
func NewSpline(points []Vec3, tension float64) *Spline {
	return &Spline{points: points, tension: tension}
}

// Point 返回参数 t ∈ [0, 1] 处的曲线点
func (s *Spline) Point(t float64) Vec3 {
	l := len(s.points)
	switch l {
	case 0:
		return Vec3{}
	case 1:
		return s.points[0]
	}

	t = Clamp(t, 0, 1)
	p := float64(l-1) * t
	intPoint := int(p)
	weight := p - float64(intPoint)
	if intPoint >= l-1 {
		intPoint = l - 2
		weight = 1
	}

	var p0, p3 Vec3
	if intPoint > 0 {
		p0 = s.points[intPoint-1]
	} else {
		p0 = s.points[0].Sub(s.points[1]).Add(s.points[0])
	}
	p1 := s.points[intPoint]
	p2 := s.points[intPoint+1]
	if intPoint+2 < l {
		p3 = s.points[intPoint+2]
	} else {
		p3 = s.points[l-1].Sub(s.points[l-2]).Add(s.points[l-1])
	}

	return Vec3{
		X: catmullRom(p0.X, p1.X, p2.X, p3.X, s.tension, weight),
		Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, s.tension, weight),
		Z: catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, s.tension, weight),
	}
}

// Tangent 返回参数 t 处的单位切线
// 退化时（控制点重合）回退到赛道前进方向
func (s *Spline) Tangent(t float64) Vec3 {
	t1 := t - tangentDelta
	t2 := t + tangentDelta
	if t1 < 0 {
		t1 = 0
	}
	if t2 > 1 {
		t2 = 1
	}
	return s.Point(t2).Sub(s.Point(t1)).Normalize()
}

// Frame 返回参数 t 处的局部坐标系
// binormal 为水平横向（切线 × 世界向上），up 固定为世界向上，
// 使截面在局部保持水平
func (s *Spline) Frame(t float64) (point, tangent, binormal Vec3) {
	point = s.Point(t)
	tangent = s.Tangent(t)
	binormal = tangent.Cross(WorldUp).NormalizeOr(Vec3{1, 0, 0})
	return point, tangent, binormal
}

// Length 返回曲线近似长度（SplineLengthDivisions 段折线之和）
func (s *Spline) Length() float64 {
	if len(s.points) < 2 {
		return 0
	}
	total := 0.0
	prev := s.Point(0)
	for i := 1; i <= SplineLengthDivisions; i++ {
		cur := s.Point(float64(i) / SplineLengthDivisions)
		total += cur.Distance(prev)
		prev = cur
	}
	return total
}

// catmullRom 计算单轴三次插值
func catmullRom(x0, x1, x2, x3, tension, t float64) float64 {
	t0 := tension * (x2 - x0)
	t1 := tension * (x3 - x1)
	c0 := x1
	c1 := t0
	c2 := -3*x1 + 3*x2 - 2*t0 - t1
	c3 := 2*x1 - 2*x2 + t0 + t1
	return c0 + c1*t + c2*t*t + c3*t*t*t
}
