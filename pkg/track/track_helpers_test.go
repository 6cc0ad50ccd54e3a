package track

import (
	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/utils"
)

// buildCourse 从种子段开始生成到 last（含）的全部段
func buildCourse(last int) map[int]*Segment {
	director := config.DefaultLevelDirector()
	state := NewStreamingState(director)
	gen := NewGenerator(director, 3, 2024)

	course := make(map[int]*Segment, last+1)
	for _, seg := range state.ActiveSegments {
		course[seg.ID] = seg
	}
	prev := state.Newest()
	for index := prev.ID + 1; index <= last; index++ {
		seg := gen.Next(state, prev, index)
		course[index] = seg
		prev = seg
	}
	return course
}

// straightSegment 沿 -Z 方向的水平直线段
func straightSegment(id int, length float64) *Segment {
	cfg := config.DefaultLevelDirector().ConfigFor(id)
	return &Segment{
		ID: id,
		ControlPoints: []utils.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 0, Y: 0, Z: -length / 3},
			{X: 0, Y: 0, Z: -length * 2 / 3},
			{X: 0, Y: 0, Z: -length},
		},
		Config: cfg,
	}
}
