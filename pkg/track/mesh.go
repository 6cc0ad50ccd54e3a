package track

import (
	"github.com/gonewx/watershed/pkg/utils"
)

// Mesh 顶点/索引缓冲
// 渲染协作者按 ID 拿到后视为不可变
type Mesh struct {
	Positions []float32 // xyz 交错
	Normals   []float32 // xyz 交错
	Colors    []float32 // rgb 交错（可为空）
	UVs       []float32 // uv 交错
	Dryness   []float32 // 每顶点干燥度（仅地面网格）
	Indices   []uint32  // 三角形索引

	// Columns、Rows 网格的横向/纵向细分数；每行 Columns+1 个顶点，共 Rows+1 行
	Columns int
	Rows    int
}

// VertexCount 返回顶点数
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount 返回三角形数
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex 返回第 i 个顶点位置
func (m *Mesh) Vertex(i int) utils.Vec3 {
	return utils.Vec3{
		X: float64(m.Positions[i*3]),
		Y: float64(m.Positions[i*3+1]),
		Z: float64(m.Positions[i*3+2]),
	}
}

// GridVertex 返回第 iz 行第 ix 列的顶点位置
func (m *Mesh) GridVertex(ix, iz int) utils.Vec3 {
	return m.Vertex(ix + (m.Columns+1)*iz)
}

// CollisionGeometry 返回仅含位置的三角形数据，供物理引擎使用
// 返回的切片与网格共享底层数组，调用方不得修改
func (m *Mesh) CollisionGeometry() (positions []float32, indices []uint32) {
	return m.Positions, m.Indices
}

// gridMesh 构造 (cols+1) × (rows+1) 的规则网格
// 顶点按行（纵向）优先排列，vertexAt 返回每个顶点的世界坐标
func gridMesh(cols, rows int, vertexAt func(ix, iz int) utils.Vec3) *Mesh {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	stride := cols + 1
	count := stride * (rows + 1)

	m := &Mesh{
		Positions: make([]float32, 0, count*3),
		UVs:       make([]float32, 0, count*2),
		Indices:   make([]uint32, 0, cols*rows*6),
		Columns:   cols,
		Rows:      rows,
	}

	for iz := 0; iz <= rows; iz++ {
		for ix := 0; ix <= cols; ix++ {
			p := vertexAt(ix, iz)
			m.Positions = append(m.Positions, float32(p.X), float32(p.Y), float32(p.Z))
			m.UVs = append(m.UVs, float32(ix)/float32(cols), float32(iz)/float32(rows))
		}
	}

	for iz := 0; iz < rows; iz++ {
		for ix := 0; ix < cols; ix++ {
			a := uint32(ix + stride*iz)
			b := uint32(ix + stride*(iz+1))
			c := uint32(ix + 1 + stride*(iz+1))
			d := uint32(ix + 1 + stride*iz)
			m.Indices = append(m.Indices, a, d, b, b, d, c)
		}
	}

	m.computeNormals()
	return m
}

// computeNormals 按面法线累加求顶点法线
// 三角形从上方看为逆时针，平坦网格的法线朝向 +Y
func (m *Mesh) computeNormals() {
	n := m.VertexCount()
	acc := make([]utils.Vec3, n)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		a, b, c := m.Vertex(ia), m.Vertex(ib), m.Vertex(ic)
		face := c.Sub(b).Cross(a.Sub(b))
		acc[ia] = acc[ia].Add(face)
		acc[ib] = acc[ib].Add(face)
		acc[ic] = acc[ic].Add(face)
	}

	m.Normals = make([]float32, 0, n*3)
	for _, v := range acc {
		nv := v.NormalizeOr(utils.WorldUp)
		m.Normals = append(m.Normals, float32(nv.X), float32(nv.Y), float32(nv.Z))
	}
}
