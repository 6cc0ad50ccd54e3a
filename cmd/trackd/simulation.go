package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/ecs"
	"github.com/gonewx/watershed/pkg/systems"
)

// simulation 无界面的逐帧模拟：镜头沿赛道行进，流式系统随之生成和淘汰段
// 所有对系统的访问都持有 mu，巡检接口与模拟循环共用这把锁
type simulation struct {
	mu        sync.Mutex
	streaming *systems.TrackStreamingSystem
	camera    *systems.CourseCameraSystem
	tick      time.Duration
	frames    uint64
}

func newSimulation(director *config.LevelDirector, seed uint64, speed float64, tickHz int, observer systems.TrackObserver) (*simulation, error) {
	if tickHz <= 0 {
		return nil, fmt.Errorf("failed to create simulation: tick rate must be positive, got %d", tickHz)
	}

	em := ecs.NewEntityManager()
	streaming, err := systems.NewTrackStreamingSystem(em, director, config.DefaultStreamingConfig(), seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	if observer != nil {
		streaming.SetObserver(observer)
	}

	return &simulation{
		streaming: streaming,
		camera:    systems.NewCourseCameraSystem(em, streaming, speed),
		tick:      time.Second / time.Duration(tickHz),
	}, nil
}

// step 推进一帧：先移动镜头，再用镜头位置做一次流式检查
func (s *simulation) step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.camera.Update(dt)
	s.streaming.Update(s.camera.Position())
	s.frames++
}

// run 以固定帧率推进，直到 ctx 取消
func (s *simulation) run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	dt := s.tick.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step(dt)
		}
	}
}
