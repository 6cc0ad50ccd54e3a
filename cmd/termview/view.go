package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/ecs"
	"github.com/gonewx/watershed/pkg/systems"
	"github.com/gonewx/watershed/pkg/track"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// 缩放范围（每个世界单位占的行数；列方向按字符宽高比放大一倍）
const (
	defaultScale = 0.25
	minScale     = 0.05
	maxScale     = 2.0
)

var (
	hudStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	waterStyle   = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
	wallStyle    = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	cameraStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	controlStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

var biomeStyles = map[types.Biome]tcell.Style{
	types.BiomeSummer: tcell.StyleDefault.Foreground(tcell.ColorLightGreen),
	types.BiomeAutumn: tcell.StyleDefault.Foreground(tcell.ColorOrange),
}

// placementGlyphs 装饰物类别的字符和颜色
var placementGlyphs = map[types.PlacementCategory]struct {
	r     rune
	style tcell.Style
}{
	types.CategoryRock:      {'o', tcell.StyleDefault.Foreground(tcell.ColorGray)},
	types.CategoryTree:      {'T', tcell.StyleDefault.Foreground(tcell.ColorGreen)},
	types.CategoryDebris:    {',', tcell.StyleDefault.Foreground(tcell.ColorTan)},
	types.CategoryGrass:     {'"', tcell.StyleDefault.Foreground(tcell.ColorLime)},
	types.CategoryReed:      {'|', tcell.StyleDefault.Foreground(tcell.ColorOlive)},
	types.CategoryDriftwood: {'=', tcell.StyleDefault.Foreground(tcell.ColorSienna)},
	types.CategoryLeaf:      {'*', tcell.StyleDefault.Foreground(tcell.ColorDarkOrange)},
	types.CategoryFirefly:   {'+', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
	types.CategoryBird:      {'v', tcell.StyleDefault.Foreground(tcell.ColorSilver)},
	types.CategoryFish:      {'>', tcell.StyleDefault.Foreground(tcell.ColorPink)},
}

// termView 终端俯视图
// 单线程：事件处理和逐帧推进都在 run 的主循环里
type termView struct {
	screen    tcell.Screen
	director  *config.LevelDirector
	streaming *systems.TrackStreamingSystem
	camera    *systems.CourseCameraSystem
	seed      uint64
	speed     float64
	scale     float64
	paused    bool
	biome     types.Biome
}

func newTermView(screen tcell.Screen, director *config.LevelDirector, seed uint64, speed float64) (*termView, error) {
	v := &termView{
		screen:   screen,
		director: director,
		speed:    speed,
		scale:    defaultScale,
	}
	if err := v.restart(seed); err != nil {
		return nil, err
	}
	return v, nil
}

// restart 用新种子重建赛道
func (v *termView) restart(seed uint64) error {
	em := ecs.NewEntityManager()
	streaming, err := systems.NewTrackStreamingSystem(em, v.director, config.DefaultStreamingConfig(), seed)
	if err != nil {
		return fmt.Errorf("failed to start course: %w", err)
	}
	streaming.SetBiomeChangeCallback(func(b types.Biome) { v.biome = b })

	v.streaming = streaming
	v.camera = systems.NewCourseCameraSystem(em, streaming, v.speed)
	v.camera.SetPaused(v.paused)
	v.seed = seed
	return nil
}

// step 推进一帧
func (v *termView) step(dt float64) {
	v.camera.Update(dt)
	v.streaming.Update(v.camera.Position())
}

// project 世界坐标到终端单元格；镜头固定在屏幕下部中央
func (v *termView) project(p utils.Vec3) (int, int) {
	w, h := v.screen.Size()
	origin := v.camera.Position()
	col := float64(w)/2 + (p.X-origin.X)*v.scale*2
	row := float64(h)*3/4 + (p.Z-origin.Z)*v.scale
	return int(col), int(row)
}

func (v *termView) put(p utils.Vec3, r rune, style tcell.Style) {
	x, y := v.project(p)
	w, h := v.screen.Size()
	// 第 0 行留给状态栏
	if x < 0 || x >= w || y < 1 || y >= h {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

// draw 绘制一帧：地面、水面、壁壳边界、中心线、装饰物、镜头，最后是状态栏
func (v *termView) draw() {
	v.screen.Clear()

	for _, seg := range v.streaming.ActiveSegments() {
		if geo, ok := v.streaming.Geometry(seg.ID); ok {
			v.drawFloor(geo.Floor)
			v.drawMesh(geo.Water, '~', waterStyle)
			v.drawEdges(geo.Wall, '#', wallStyle)
		}
		v.drawCenterline(seg)
		if placements, ok := v.streaming.Placements(seg.ID); ok {
			for _, category := range types.AllPlacementCategories() {
				glyph := placementGlyphs[category]
				for _, e := range placements[category] {
					v.put(e.Position, glyph.r, glyph.style)
				}
			}
		}
	}

	v.put(v.camera.Position(), '@', cameraStyle)
	v.drawHUD()
	v.screen.Show()
}

// drawFloor 按干燥度把地面顶点画成灰度点
func (v *termView) drawFloor(m *track.Mesh) {
	if m == nil {
		return
	}
	for i := 0; i < m.VertexCount(); i++ {
		level := int32(128)
		if i < len(m.Dryness) {
			level = int32(60 + 160*m.Dryness[i])
		}
		v.put(m.Vertex(i), '.', tcell.StyleDefault.Foreground(tcell.NewRGBColor(level, level, level)))
	}
}

func (v *termView) drawMesh(m *track.Mesh, r rune, style tcell.Style) {
	if m == nil {
		return
	}
	for i := 0; i < m.VertexCount(); i++ {
		v.put(m.Vertex(i), r, style)
	}
}

// drawEdges 只画网格最外侧的两列
func (v *termView) drawEdges(m *track.Mesh, r rune, style tcell.Style) {
	if m == nil || m.VertexCount() == 0 {
		return
	}
	for iz := 0; iz <= m.Rows; iz++ {
		v.put(m.GridVertex(0, iz), r, style)
		v.put(m.GridVertex(m.Columns, iz), r, style)
	}
}

func (v *termView) drawCenterline(seg *track.Segment) {
	if !seg.IsGenerated() {
		return
	}
	style, ok := biomeStyles[seg.Config.Biome]
	if !ok {
		style = controlStyle
	}
	spline := seg.Spline()
	samples := int(seg.Length()) + 1
	for i := 0; i <= samples; i++ {
		v.put(spline.Point(float64(i)/float64(samples)), ':', style)
	}
	for _, p := range seg.ControlPoints {
		v.put(p, 'O', controlStyle)
	}
}

func (v *termView) drawHUD() {
	w, _ := v.screen.Size()
	state := v.streaming.State()
	cam := v.camera.Camera()

	status := ""
	if v.paused {
		status = " [paused]"
	}
	line := fmt.Sprintf(" seed %d  seg %d (%s)  active %d..%d  biome %s  speed %.0f  flow %.2f%s  q quit  space pause  +/- zoom  r reseed",
		v.seed, cam.SegmentID, v.director.RuleFor(cam.SegmentID), state.Oldest().ID, state.Newest().ID,
		v.biome, v.speed, v.camera.FlowSpeed(), status)

	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		v.screen.SetContent(col, 0, r, nil, hudStyle)
		col++
	}
	for ; col < w; col++ {
		v.screen.SetContent(col, 0, ' ', nil, hudStyle)
	}
}

// handleEvent 处理按键和窗口变化；返回 false 表示退出
func (v *termView) handleEvent(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false, nil
		}
		if ev.Key() != tcell.KeyRune {
			return true, nil
		}
		switch ev.Rune() {
		case 'q':
			return false, nil
		case ' ':
			v.paused = !v.paused
			v.camera.SetPaused(v.paused)
		case '+', '=':
			v.scale = utils.Clamp(v.scale*1.25, minScale, maxScale)
		case '-':
			v.scale = utils.Clamp(v.scale/1.25, minScale, maxScale)
		case 'r':
			return true, v.restart(v.seed + 1)
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true, nil
}
