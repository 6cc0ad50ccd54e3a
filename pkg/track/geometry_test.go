package track

import (
	"math"
	"reflect"
	"testing"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/utils"
)

// TestBuildVertexCounts 测试各网格的细分数
func TestBuildVertexCounts(t *testing.T) {
	seg := straightSegment(2, 41)
	geo := NewSynthesizer().Build(seg)

	length := seg.Length()
	floorRows := int(math.Floor(length))
	shellRows := int(math.Floor(length / 2))

	tests := []struct {
		name string
		mesh *Mesh
		cols int
		rows int
	}{
		{"地面", geo.Floor, FloorColumns, floorRows},
		{"壁壳", geo.Wall, WallColumns, shellRows},
		{"水面", geo.Water, WaterColumns, shellRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := tt.mesh.VertexCount(), (tt.cols+1)*(tt.rows+1); got != want {
				t.Errorf("顶点数 = %d, 期望 %d", got, want)
			}
			if got, want := tt.mesh.TriangleCount(), tt.cols*tt.rows*2; got != want {
				t.Errorf("三角形数 = %d, 期望 %d", got, want)
			}
			if len(tt.mesh.Normals) != len(tt.mesh.Positions) {
				t.Errorf("法线数量 %d 与顶点数量 %d 不一致", len(tt.mesh.Normals), len(tt.mesh.Positions))
			}
			if len(tt.mesh.UVs) != tt.mesh.VertexCount()*2 {
				t.Errorf("UV 数量 = %d, 期望 %d", len(tt.mesh.UVs), tt.mesh.VertexCount()*2)
			}
			if tt.mesh.Columns != tt.cols || tt.mesh.Rows != tt.rows {
				t.Errorf("细分数 = %dx%d, 期望 %dx%d", tt.mesh.Columns, tt.mesh.Rows, tt.cols, tt.rows)
			}
			last := tt.mesh.VertexCount() - 1
			if tt.mesh.GridVertex(tt.cols, tt.rows) != tt.mesh.Vertex(last) {
				t.Error("GridVertex 与顶点布局不一致")
			}
		})
	}
}

// TestBuildDeterministic 测试几何只取决于段本身
func TestBuildDeterministic(t *testing.T) {
	seg := buildCourse(9)[9]
	a := NewSynthesizer().Build(seg)
	b := NewSynthesizer().Build(seg)
	if !reflect.DeepEqual(a, b) {
		t.Error("同一段两次合成的几何不同")
	}
}

// TestBuildFloorMatchesHeightFunction 测试地面顶点与截面高度函数一致
func TestBuildFloorMatchesHeightFunction(t *testing.T) {
	seg := straightSegment(2, 30)
	floor := NewSynthesizer().BuildFloor(seg)
	cs := seg.CrossSection()
	length := seg.Length()
	rows := int(math.Floor(length))

	for _, iz := range []int{0, rows / 2, rows} {
		zLocal := -length/2 + length*float64(iz)/float64(rows)
		for _, ix := range []int{0, 10, FloorColumns / 2, FloorColumns} {
			x := -cs.CanyonWidth/2 + cs.CanyonWidth*float64(ix)/FloorColumns
			v := floor.Vertex(iz*(FloorColumns+1) + ix)
			if math.Abs(v.Y-cs.FloorHeight(x, zLocal)) > 1e-4 {
				t.Errorf("顶点 (%d,%d) 高度 %v, 期望 %v", ix, iz, v.Y, cs.FloorHeight(x, zLocal))
			}
			if math.Abs(v.X-x) > 1e-4 {
				t.Errorf("顶点 (%d,%d) 横向位置 %v, 期望 %v", ix, iz, v.X, x)
			}
		}
	}
}

// TestBuildFloorDryness 测试干燥度与颜色
func TestBuildFloorDryness(t *testing.T) {
	floor := NewSynthesizer().BuildFloor(straightSegment(2, 20))

	if len(floor.Dryness) != floor.VertexCount() {
		t.Fatalf("干燥度数量 = %d, 期望 %d", len(floor.Dryness), floor.VertexCount())
	}
	if len(floor.Colors) != floor.VertexCount()*3 {
		t.Fatalf("颜色数量 = %d, 期望 %d", len(floor.Colors), floor.VertexCount()*3)
	}

	sawDry, sawWet := false, false
	for i, d := range floor.Dryness {
		if d < 0 || d > 1 {
			t.Fatalf("顶点 %d 干燥度 %v 超出 [0,1]", i, d)
		}
		want := float32(0.4 + 0.6*float64(d))
		if math.Abs(float64(floor.Colors[i*3]-want)) > 1e-5 {
			t.Errorf("顶点 %d 颜色 %v, 期望 %v", i, floor.Colors[i*3], want)
		}
		if d == 1 {
			sawDry = true
		}
		if d == 0 {
			sawWet = true
		}
	}
	if !sawDry || !sawWet {
		t.Errorf("期望河床湿润、岸顶干燥: sawDry=%v sawWet=%v", sawDry, sawWet)
	}
}

// TestBuildWaterSurfaceLevel 测试水面高于中心线 WaterLevel
func TestBuildWaterSurfaceLevel(t *testing.T) {
	seg := buildCourse(4)[4]
	water := NewSynthesizer().BuildWaterSurface(seg)

	// 第一行的中间列正好在路径中心线上
	center := water.Vertex(WaterColumns / 2)
	want := seg.Head().Add(utils.WorldUp.Scale(config.WaterLevel))
	if center.Distance(want) > 1e-3 {
		t.Errorf("水面中心 = %+v, 期望 %+v", center, want)
	}

	first := water.Vertex(0)
	last := water.Vertex(WaterColumns)
	if w := first.Distance(last); math.Abs(w-config.RiverWaterWidth) > 1e-3 {
		t.Errorf("水面宽度 = %v, 期望 %v", w, config.RiverWaterWidth)
	}
}

// TestBuildWallShellCapped 测试壁壳高度不超过上限
func TestBuildWallShellCapped(t *testing.T) {
	wall := NewSynthesizer().BuildWallShell(straightSegment(2, 40))
	for i := 0; i < wall.VertexCount(); i++ {
		if y := wall.Vertex(i).Y; y > config.WallShellCap+1e-4 {
			t.Fatalf("壁壳顶点 %d 高度 %v 超过上限 %v", i, y, config.WallShellCap)
		}
	}
}

// TestBuildNormalsFaceUp 测试缓坡段的地面法线朝上
func TestBuildNormalsFaceUp(t *testing.T) {
	for _, seg := range []*Segment{straightSegment(2, 30), buildCourse(0)[0]} {
		floor := NewSynthesizer().BuildFloor(seg)
		for i := 0; i < floor.VertexCount(); i++ {
			if ny := floor.Normals[i*3+1]; ny <= 0 {
				t.Fatalf("段 %d 顶点 %d 法线 y = %v, 期望朝上", seg.ID, i, ny)
			}
		}
	}
}

// TestBuildDegenerateSegment 测试零长度段仍能生成一行网格且无 NaN
func TestBuildDegenerateSegment(t *testing.T) {
	seg := &Segment{
		ID:            5,
		ControlPoints: []utils.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}},
		Config:        config.DefaultLevelDirector().ConfigFor(5),
	}
	geo := NewSynthesizer().Build(seg)

	if got, want := geo.Floor.VertexCount(), (FloorColumns+1)*2; got != want {
		t.Errorf("顶点数 = %d, 期望 %d", got, want)
	}
	for _, m := range []*Mesh{geo.Floor, geo.Wall, geo.Water} {
		for i, v := range m.Positions {
			if math.IsNaN(float64(v)) {
				t.Fatalf("位置 %d 为 NaN", i)
			}
		}
		for i, v := range m.Normals {
			if math.IsNaN(float64(v)) {
				t.Fatalf("法线 %d 为 NaN", i)
			}
		}
	}
}

// TestCollisionGeometry 测试碰撞数据与网格共享缓冲
func TestCollisionGeometry(t *testing.T) {
	floor := NewSynthesizer().BuildFloor(straightSegment(2, 10))
	pos, idx := floor.CollisionGeometry()
	if len(pos) != len(floor.Positions) || len(idx) != len(floor.Indices) {
		t.Error("碰撞数据长度与网格不一致")
	}
	for _, i := range idx {
		if int(i) >= floor.VertexCount() {
			t.Fatalf("索引 %d 越界", i)
		}
	}
}
