// termview 在终端里以俯视图观察流式生成的赛道
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/systems"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	seedFlag     = flag.Uint64("seed", 1, "运行种子")
	speedFlag    = flag.Float64("speed", systems.DefaultCameraSpeed, "镜头基础速度")
	directorFlag = flag.String("director", "", "关卡导演 YAML 路径（默认使用内置表）")
	logFlag      = flag.String("log", "", "日志文件路径（终端被占用，默认不输出日志）")
)

func main() {
	flag.Parse()

	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	director := config.DefaultLevelDirector()
	if *directorFlag != "" {
		loaded, err := config.LoadLevelDirector(*directorFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		director = loaded
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
		os.Exit(1)
	}

	view, err := newTermView(screen, director, *seedFlag, *speedFlag)
	if err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(view)
	screen.Fini()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(view *termView) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := view.screen.PollEvent()
			if ev == nil {
				// Fini 之后 PollEvent 返回 nil
				return
			}
			eventChan <- ev
		}
	}()

	dt := frameInterval.Seconds()
	for {
		select {
		case ev := <-eventChan:
			keep, err := view.handleEvent(ev)
			if err != nil || !keep {
				return err
			}
		case <-ticker.C:
			view.step(dt)
			view.draw()
		}
	}
}
