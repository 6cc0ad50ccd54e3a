package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/watershed/pkg/app"
	"github.com/gonewx/watershed/pkg/embedded"
)

var (
	verboseFlag  = flag.Bool("verbose", false, "显示详细日志")
	seedFlag     = flag.Uint64("seed", 0, "运行种子（0 = 沿用上次的种子）")
	directorFlag = flag.String("director", "", "关卡导演 YAML 路径（默认使用内置的 data/track/director.yaml）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	preview, err := app.NewApp(app.Config{
		Verbose:      *verboseFlag,
		Seed:         *seedFlag,
		DirectorPath: *directorFlag,
	})
	if err != nil {
		// 非 verbose 模式下 log 输出已被丢弃，错误直接写到 stderr
		fmt.Fprintf(os.Stderr, "预览器初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Watershed - 程序化河道预览")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(preview); err != nil {
		log.Fatal(err)
	}
}
