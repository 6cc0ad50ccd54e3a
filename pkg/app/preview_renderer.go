package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/watershed/pkg/components"
	"github.com/gonewx/watershed/pkg/ecs"
	"github.com/gonewx/watershed/pkg/game"
	"github.com/gonewx/watershed/pkg/track"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// 俯视投影：+X 向右，前进方向（-Z）朝屏幕上方；镜头固定在屏幕下部
const (
	cameraScreenX = WindowWidth / 2
	cameraScreenY = WindowHeight * 3 / 4

	// floorRowStride 地面网格每隔几行画一条横截线
	floorRowStride = 2
	// centerlineSamples 中心线每段的采样数
	centerlineSamples = 32
)

var (
	backgroundColor = color.RGBA{R: 24, G: 28, B: 24, A: 255}
	wallColor       = color.RGBA{R: 110, G: 82, B: 60, A: 255}
	waterColor      = color.RGBA{R: 70, G: 140, B: 220, A: 200}
	controlColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	cameraColor     = color.RGBA{R: 255, G: 64, B: 64, A: 255}
)

// biomeColors 中心线按群系着色
var biomeColors = map[types.Biome]color.RGBA{
	types.BiomeSummer: {R: 120, G: 220, B: 120, A: 255},
	types.BiomeAutumn: {R: 240, G: 160, B: 60, A: 255},
}

// categoryStyles 装饰物类别的颜色和半径（像素）
var categoryStyles = map[types.PlacementCategory]struct {
	color  color.RGBA
	radius float32
}{
	types.CategoryRock:      {color.RGBA{R: 150, G: 150, B: 150, A: 255}, 3},
	types.CategoryTree:      {color.RGBA{R: 40, G: 160, B: 60, A: 255}, 4},
	types.CategoryDebris:    {color.RGBA{R: 120, G: 110, B: 100, A: 255}, 1.5},
	types.CategoryGrass:     {color.RGBA{R: 90, G: 200, B: 80, A: 255}, 1.5},
	types.CategoryReed:      {color.RGBA{R: 180, G: 190, B: 90, A: 255}, 1.5},
	types.CategoryDriftwood: {color.RGBA{R: 140, G: 100, B: 60, A: 255}, 2.5},
	types.CategoryLeaf:      {color.RGBA{R: 230, G: 120, B: 40, A: 255}, 1.5},
	types.CategoryFirefly:   {color.RGBA{R: 255, G: 250, B: 120, A: 255}, 1.5},
	types.CategoryBird:      {color.RGBA{R: 30, G: 30, B: 30, A: 255}, 2},
	types.CategoryFish:      {color.RGBA{R: 255, G: 140, B: 160, A: 255}, 2},
}

// projector 世界坐标到屏幕坐标的俯视投影
type projector struct {
	origin utils.Vec3
	zoom   float64
	// 拖拽平移的像素偏移
	offsetX, offsetY float64
}

// project 返回世界坐标在屏幕上的位置（忽略高度）
func (p projector) project(v utils.Vec3) (float32, float32) {
	x := cameraScreenX + p.offsetX + (v.X-p.origin.X)*p.zoom
	y := cameraScreenY + p.offsetY + (v.Z-p.origin.Z)*p.zoom
	return float32(x), float32(y)
}

// visible 屏幕坐标是否在窗口内（留一点边距）
func (p projector) visible(x, y float32) bool {
	const margin = 16
	return x >= -margin && x <= WindowWidth+margin && y >= -margin && y <= WindowHeight+margin
}

// Draw 绘制预览画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	s := a.settings.GetSettings()
	proj := projector{origin: a.camera.Position(), zoom: s.Zoom, offsetX: a.pan.offsetX, offsetY: a.pan.offsetY}

	for _, entity := range ecs.GetEntitiesWith3[*components.TrackSlotComponent, *components.SegmentGeometryComponent, *components.PlacementComponent](a.em) {
		slot, _ := ecs.GetComponent[*components.TrackSlotComponent](a.em, entity)
		if slot.Parked {
			continue
		}
		geo, _ := ecs.GetComponent[*components.SegmentGeometryComponent](a.em, entity)
		placements, _ := ecs.GetComponent[*components.PlacementComponent](a.em, entity)
		a.drawSlot(screen, proj, s, slot.Segment, geo.Geometry, placements.Placements)
	}

	cx, cy := proj.project(a.camera.Position())
	vector.DrawFilledCircle(screen, cx, cy, 4, cameraColor, true)

	a.drawHUD(screen)
}

func (a *App) drawSlot(screen *ebiten.Image, proj projector, s *game.PreviewSettings, seg *track.Segment, geo track.SegmentGeometry, placements track.Placements) {
	if s.ShowWall {
		drawMeshEdges(screen, proj, geo.Wall, wallColor)
	}
	if s.ShowFloor {
		drawFloor(screen, proj, geo.Floor)
	}
	if s.ShowWater {
		drawMeshEdges(screen, proj, geo.Water, waterColor)
	}
	drawCenterline(screen, proj, seg)
	if s.ShowPlacements {
		drawPlacements(screen, proj, placements)
	}
}

// drawMeshEdges 画出网格左右两条边界
func drawMeshEdges(screen *ebiten.Image, proj projector, m *track.Mesh, clr color.Color) {
	if m == nil || m.VertexCount() == 0 {
		return
	}
	for _, ix := range []int{0, m.Columns} {
		for iz := 1; iz <= m.Rows; iz++ {
			x0, y0 := proj.project(m.GridVertex(ix, iz-1))
			x1, y1 := proj.project(m.GridVertex(ix, iz))
			if proj.visible(x0, y0) || proj.visible(x1, y1) {
				vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, clr, true)
			}
		}
	}
}

// drawFloor 按干燥度着色画地面横截线
func drawFloor(screen *ebiten.Image, proj projector, m *track.Mesh) {
	if m == nil || m.VertexCount() == 0 {
		return
	}
	for iz := 0; iz <= m.Rows; iz += floorRowStride {
		for ix := 1; ix <= m.Columns; ix++ {
			x0, y0 := proj.project(m.GridVertex(ix-1, iz))
			x1, y1 := proj.project(m.GridVertex(ix, iz))
			if !proj.visible(x0, y0) && !proj.visible(x1, y1) {
				continue
			}
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, floorColor(m, ix+(m.Columns+1)*iz), false)
		}
	}
}

// floorColor 取顶点颜色；没有颜色属性时用中灰
func floorColor(m *track.Mesh, i int) color.RGBA {
	if len(m.Colors) < (i+1)*3 {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	c := func(v float32) uint8 { return uint8(utils.Clamp(float64(v), 0, 1) * 255) }
	return color.RGBA{R: c(m.Colors[i*3]), G: c(m.Colors[i*3+1]), B: c(m.Colors[i*3+2]), A: 255}
}

// drawCenterline 画样条中心线和控制点
func drawCenterline(screen *ebiten.Image, proj projector, seg *track.Segment) {
	if !seg.IsGenerated() {
		return
	}
	clr, ok := biomeColors[seg.Config.Biome]
	if !ok {
		clr = controlColor
	}

	spline := seg.Spline()
	px, py := proj.project(spline.Point(0))
	for i := 1; i <= centerlineSamples; i++ {
		x, y := proj.project(spline.Point(float64(i) / centerlineSamples))
		if proj.visible(px, py) || proj.visible(x, y) {
			vector.StrokeLine(screen, px, py, x, y, 2, clr, true)
		}
		px, py = x, y
	}

	for _, p := range seg.ControlPoints {
		x, y := proj.project(p)
		if proj.visible(x, y) {
			vector.DrawFilledCircle(screen, x, y, 2.5, controlColor, true)
		}
	}

	if anchor, ok := seg.WaterfallAnchor(); ok {
		x, y := proj.project(anchor)
		vector.StrokeCircle(screen, x, y, 10, 2, waterColor, true)
	}
}

// drawPlacements 按类别颜色画装饰物，类别顺序与采样顺序一致
func drawPlacements(screen *ebiten.Image, proj projector, placements track.Placements) {
	for _, category := range types.AllPlacementCategories() {
		style := categoryStyles[category]
		for _, e := range placements[category] {
			x, y := proj.project(e.Position)
			if proj.visible(x, y) {
				vector.DrawFilledCircle(screen, x, y, style.radius, style.color, true)
			}
		}
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// drawHUD 左上角的状态信息
func (a *App) drawHUD(screen *ebiten.Image) {
	s := a.settings.GetSettings()
	state := a.streaming.State()
	cam := a.camera.Camera()

	current := "-"
	if seg, ok := a.streaming.Segment(cam.SegmentID); ok {
		current = fmt.Sprintf("%d %s/%s (%s)", seg.ID, seg.Config.Type, seg.Config.Biome, a.director.RuleFor(seg.ID))
	}

	status := "running"
	if a.paused {
		status = "paused"
	}

	hud := fmt.Sprintf(
		"seed %d  [%s]  FPS %.0f\n"+
			"segment %s  t=%.2f\n"+
			"active %d..%d  last trigger %d  phase %.2f\n"+
			"speed %.0f x flow %.2f  zoom %.2f\n"+
			"layers: 1 floor %s  2 wall %s  3 water %s  4 placements %s\n"+
			"space pause  up/down speed  +/- zoom  drag pan  C recenter  R new seed  N restart  F11 fullscreen",
		a.seed, status, ebiten.ActualFPS(),
		current, cam.T,
		state.Oldest().ID, state.Newest().ID, state.LastTriggeredTailID, state.MeanderPhase,
		s.CameraSpeed, a.camera.FlowSpeed(), s.Zoom,
		onOff(s.ShowFloor), onOff(s.ShowWall), onOff(s.ShowWater), onOff(s.ShowPlacements),
	)
	ebitenutil.DebugPrintAt(screen, hud, 10, 10)

	if a.bannerTimer > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("entering %s", a.biome), cameraScreenX-40, WindowHeight/3)
	}
}
