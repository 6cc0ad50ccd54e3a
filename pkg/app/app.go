// Package app 提供赛道预览器的 ebiten 应用包装
//
// 预览器扮演渲染协作者：逐帧驱动镜头和流式系统，把活动段的网格、
// 中心线和装饰物以俯视投影画到屏幕上。
package app

import (
	"fmt"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/ecs"
	"github.com/gonewx/watershed/pkg/embedded"
	"github.com/gonewx/watershed/pkg/game"
	"github.com/gonewx/watershed/pkg/systems"
	"github.com/gonewx/watershed/pkg/types"
)

// 窗口逻辑尺寸
const (
	WindowWidth  = 960
	WindowHeight = 720
)

// AppName gdata 存储使用的应用名
const AppName = "watershed"

// biomeBannerSeconds 群系切换提示的显示时长
const biomeBannerSeconds = 3.0

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Seed 运行种子；0 表示沿用上次保存的种子
	Seed uint64
	// DirectorPath 关卡导演 YAML 路径；为空时使用嵌入的 data/track/director.yaml
	DirectorPath string
}

// App 赛道预览器，实现 ebiten.Game 接口
type App struct {
	settings  *game.PreviewSettingsManager
	director  *config.LevelDirector
	streaming *systems.TrackStreamingSystem
	camera    *systems.CourseCameraSystem
	em        *ecs.EntityManager
	seed      uint64

	paused      bool
	pan         panTracker
	biome       types.Biome
	bannerTimer float64

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化预览器
//
// 使用嵌入的导演表前，必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	director, err := LoadDirector(cfg.DirectorPath)
	if err != nil {
		return nil, err
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		gdataManager = nil
	}
	settings := game.NewPreviewSettingsManager(gdataManager)

	seed := cfg.Seed
	if seed == 0 {
		seed = settings.GetSettings().Seed
	}

	a := &App{
		settings: settings,
		director: director,
	}
	if err := a.startCourse(seed); err != nil {
		return nil, err
	}

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// LoadDirector 加载关卡导演表
//   - path 非空：从文件加载，失败返回错误
//   - path 为空：从嵌入资源加载，失败时回退到内置表并记录警告
func LoadDirector(path string) (*config.LevelDirector, error) {
	if path != "" {
		director, err := config.LoadLevelDirector(path)
		if err != nil {
			return nil, fmt.Errorf("关卡导演加载失败: %w", err)
		}
		log.Printf("[App] 加载关卡导演: %s (%d 条规则)", path, len(director.Rules))
		return director, nil
	}

	data, err := embedded.ReadFile(embedded.LevelDirectorPath)
	if err == nil {
		director, perr := config.ParseLevelDirector(data)
		if perr == nil {
			log.Printf("[App] 加载嵌入的关卡导演: %s (%d 条规则)", embedded.LevelDirectorPath, len(director.Rules))
			return director, nil
		}
		err = perr
	}

	log.Printf("[App] Warning: 嵌入的关卡导演不可用，使用内置表: %v", err)
	return config.DefaultLevelDirector(), nil
}

// startCourse 用指定种子重建流式系统和镜头
func (a *App) startCourse(seed uint64) error {
	em := ecs.NewEntityManager()
	streaming, err := systems.NewTrackStreamingSystem(em, a.director, config.DefaultStreamingConfig(), seed)
	if err != nil {
		return fmt.Errorf("赛道初始化失败: %w", err)
	}
	streaming.SetBiomeChangeCallback(func(b types.Biome) {
		a.biome = b
		a.bannerTimer = biomeBannerSeconds
	})

	a.em = em
	a.streaming = streaming
	a.camera = systems.NewCourseCameraSystem(em, streaming, a.settings.GetSettings().CameraSpeed)
	a.camera.SetPaused(a.paused)
	a.seed = seed

	a.settings.SetSeed(seed)
	a.saveSettings()
	log.Printf("[App] 开始新赛道: seed=%d", seed)
	return nil
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: 保存预览设置失败: %v", err)
	}
}

// Update 更新预览逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.updateWindow()
	if err := a.handleInput(); err != nil {
		return err
	}

	deltaTime := 1.0 / 60.0
	a.camera.Update(deltaTime)
	a.streaming.Update(a.camera.Position())

	if a.bannerTimer > 0 {
		a.bannerTimer -= deltaTime
	}
	return nil
}

// updateWindow 处理全屏切换
func (a *App) updateWindow() {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if !inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		return
	}
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settings.SetFullscreen(true)
	}
	a.saveSettings()
}

// layerKeys 数字键到图层的映射
var layerKeys = map[ebiten.Key]string{
	ebiten.Key1: "floor",
	ebiten.Key2: "wall",
	ebiten.Key3: "water",
	ebiten.Key4: "placements",
}

// handleInput 处理键盘输入
//   - Space 暂停/继续，↑/↓ 调整速度，+/- 缩放
//   - 拖拽平移视图，C 回到镜头
//   - 1..4 切换图层，R 换一个种子重新生成，N 用同一种子重新生成
func (a *App) handleInput() error {
	s := a.settings.GetSettings()
	changed := false

	a.pan.update(pointerState())
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.pan.reset()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.paused = !a.paused
		a.camera.SetPaused(a.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		a.settings.SetCameraSpeed(s.CameraSpeed + 4)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.settings.SetCameraSpeed(s.CameraSpeed - 4)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		a.settings.SetZoom(s.Zoom * 1.25)
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		a.settings.SetZoom(s.Zoom / 1.25)
		changed = true
	}
	for key, layer := range layerKeys {
		if inpututil.IsKeyJustPressed(key) {
			if _, err := a.settings.ToggleLayer(layer); err != nil {
				log.Printf("[App] Warning: %v", err)
				continue
			}
			changed = true
		}
	}

	if changed {
		a.camera.SetSpeed(a.settings.GetSettings().CameraSpeed)
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return a.startCourse(a.seed + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		return a.startCourse(a.seed)
	}
	return nil
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Seed 返回当前运行种子
func (a *App) Seed() uint64 {
	return a.seed
}

// Streaming 返回流式系统
func (a *App) Streaming() *systems.TrackStreamingSystem {
	return a.streaming
}
