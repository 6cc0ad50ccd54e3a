// trackd 无界面运行赛道模拟，并通过 HTTP 暴露巡检接口和 Prometheus 指标
//
// 环境变量（可写在 .env 中）：
//
//	TRACKD_ADDR      监听地址，默认 :8090
//	TRACKD_SEED      运行种子，默认 1
//	TRACKD_SPEED     镜头基础速度，默认 12
//	TRACKD_TICK_HZ   模拟帧率，默认 60
//	TRACKD_DIRECTOR  关卡导演 YAML 路径，默认使用内置表
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/inspect"
	"github.com/gonewx/watershed/pkg/metrics"
	"github.com/gonewx/watershed/pkg/systems"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("[trackd] 未加载 .env: %v（使用系统环境变量和默认值）", err)
	}

	addr := config.GetEnv("TRACKD_ADDR", ":8090")
	seed := config.GetEnvUint64("TRACKD_SEED", 1)
	speed := config.GetEnvFloat("TRACKD_SPEED", systems.DefaultCameraSpeed)
	tickHz := config.GetEnvInt("TRACKD_TICK_HZ", 60)
	directorPath := config.GetEnv("TRACKD_DIRECTOR", "")

	director := config.DefaultLevelDirector()
	if directorPath != "" {
		loaded, err := config.LoadLevelDirector(directorPath)
		if err != nil {
			log.Fatalf("[trackd] %v", err)
		}
		director = loaded
	}

	met := metrics.New()
	sim, err := newSimulation(director, seed, speed, tickHz, met)
	if err != nil {
		log.Fatalf("[trackd] %v", err)
	}

	handler := inspect.NewHandler(sim.streaming, &sim.mu)
	srv := &http.Server{Addr: addr, Handler: inspect.NewRouter(handler, met)}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sim.run(ctx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[trackd] server error: %v", err)
			os.Exit(1)
		}
	}()

	log.Printf("[trackd] 启动: addr=%s seed=%d speed=%.1f tick=%dHz director=%q", addr, seed, speed, tickHz, directorPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Printf("[trackd] 收到退出信号，停止模拟并关闭连接")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[trackd] shutdown error: %v", err)
	}

	sim.mu.Lock()
	log.Printf("[trackd] 已停止: %d 帧, 最后生成段 %d", sim.frames, sim.streaming.State().LastGeneratedID)
	sim.mu.Unlock()
}
