// Package inspect 提供赛道流式状态的只读 HTTP 巡检接口
//
// 路由基于 chi；所有读取都在调用方提供的锁内完成，
// 因此可以与逐帧推进的模拟循环并发运行。
package inspect

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/track"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// Course 巡检接口需要的赛道读取能力
// systems.TrackStreamingSystem 实现该接口
type Course interface {
	State() *track.StreamingState
	ActiveSegments() []*track.Segment
	Segment(id int) (*track.Segment, bool)
	Placements(id int) (track.Placements, bool)
	Geometry(id int) (track.SegmentGeometry, bool)
	Director() *config.LevelDirector
}

// Handler 巡检接口处理器
type Handler struct {
	course Course
	mu     sync.Locker
}

// NewHandler 创建巡检处理器
// 参数：
//   - course: 赛道读取源
//   - mu: 与模拟循环共享的锁；nil 表示调用方保证单线程访问
func NewHandler(course Course, mu sync.Locker) *Handler {
	if mu == nil {
		mu = noopLocker{}
	}
	return &Handler{course: course, mu: mu}
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// Vec 以 [x, y, z] 形式输出的向量
type Vec [3]float64

func vec(v utils.Vec3) Vec {
	return Vec{v.X, v.Y, v.Z}
}

// SegmentSummary 段列表条目
type SegmentSummary struct {
	ID         int               `json:"id"`
	Rule       string            `json:"rule"`
	Type       types.SegmentType `json:"type"`
	Biome      types.Biome       `json:"biome"`
	Length     float64           `json:"length"`
	Head       Vec               `json:"head"`
	Tail       Vec               `json:"tail"`
	Placements int               `json:"placements"`
}

// MeshStats 网格统计
type MeshStats struct {
	Vertices  int `json:"vertices"`
	Triangles int `json:"triangles"`
}

// StreamView 水流信息
type StreamView struct {
	Start     Vec     `json:"start"`
	Direction Vec     `json:"direction"`
	Length    float64 `json:"length"`
}

// SegmentDetail 单段详情
type SegmentDetail struct {
	SegmentSummary
	ControlPoints   []Vec                           `json:"controlPoints"`
	Config          ConfigView                      `json:"config"`
	Stream          *StreamView                     `json:"stream,omitempty"`
	WaterfallAnchor *Vec                            `json:"waterfallAnchor,omitempty"`
	PlacementCounts map[types.PlacementCategory]int `json:"placementCounts"`
	Meshes          map[string]MeshStats            `json:"meshes"`
}

// ConfigView SegmentConfig 的 JSON 视图
type ConfigView struct {
	Type                    types.SegmentType `json:"type"`
	Biome                   types.Biome       `json:"biome"`
	Width                   float64           `json:"width"`
	MeanderStrength         float64           `json:"meanderStrength"`
	VerticalBias            float64           `json:"verticalBias"`
	SegmentLengthMultiplier float64           `json:"segmentLengthMultiplier"`
	FlowSpeed               float64           `json:"flowSpeed"`
	ParticleCount           int               `json:"particleCount"`
	TreeDensity             float64           `json:"treeDensity"`
	RockDensity             types.RockDensity `json:"rockDensity"`
	FogDensity              float64           `json:"fogDensity"`
	CameraShake             float64           `json:"cameraShake"`
	ForwardMomentum         float64           `json:"forwardMomentum"`
	TransitionDuration      float64           `json:"transitionDuration"`
}

func configView(c config.SegmentConfig) ConfigView {
	return ConfigView{
		Type:                    c.Type,
		Biome:                   c.Biome,
		Width:                   c.Width,
		MeanderStrength:         c.MeanderStrength,
		VerticalBias:            c.VerticalBias,
		SegmentLengthMultiplier: c.SegmentLengthMultiplier,
		FlowSpeed:               c.FlowSpeed,
		ParticleCount:           c.ParticleCount,
		TreeDensity:             c.TreeDensity,
		RockDensity:             c.RockDensity,
		FogDensity:              c.FogDensity,
		CameraShake:             c.CameraShake,
		ForwardMomentum:         c.ForwardMomentum,
		TransitionDuration:      c.TransitionDuration,
	}
}

// PlacementView 装饰物条目
type PlacementView struct {
	Position  Vec     `json:"position"`
	Rotation  Vec     `json:"rotation"`
	Scale     Vec     `json:"scale"`
	Elevation float64 `json:"elevation"`
	T         float64 `json:"t"`
}

// StateView 流式状态
type StateView struct {
	ActiveIDs           []int       `json:"activeIds"`
	LastGeneratedID     int         `json:"lastGeneratedId"`
	LastTriggeredTailID int         `json:"lastTriggeredTailId"`
	MeanderPhase        float64     `json:"meanderPhase"`
	LastReportedBiome   types.Biome `json:"lastReportedBiome"`
}

// DirectorView 某个索引的导演配置
type DirectorView struct {
	Index  int        `json:"index"`
	Rule   string     `json:"rule"`
	Config ConfigView `json:"config"`
}

func (h *Handler) summary(seg *track.Segment) SegmentSummary {
	s := SegmentSummary{
		ID:     seg.ID,
		Rule:   h.course.Director().RuleFor(seg.ID),
		Type:   seg.Config.Type,
		Biome:  seg.Config.Biome,
		Length: seg.Length(),
		Head:   vec(seg.Head()),
		Tail:   vec(seg.Tail()),
	}
	if p, ok := h.course.Placements(seg.ID); ok {
		s.Placements = p.Total()
	}
	return s
}

// ListSegments 处理 GET /segments
func (h *Handler) ListSegments(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	active := h.course.ActiveSegments()
	out := make([]SegmentSummary, 0, len(active))
	for _, seg := range active {
		out = append(out, h.summary(seg))
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

// GetSegment 处理 GET /segments/{id}
func (h *Handler) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := segmentID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	detail, found := h.detail(id)
	h.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "segment not active")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) detail(id int) (SegmentDetail, bool) {
	seg, ok := h.course.Segment(id)
	if !ok {
		return SegmentDetail{}, false
	}

	d := SegmentDetail{
		SegmentSummary:  h.summary(seg),
		Config:          configView(seg.Config),
		PlacementCounts: make(map[types.PlacementCategory]int),
		Meshes:          make(map[string]MeshStats),
	}
	for _, p := range seg.ControlPoints {
		d.ControlPoints = append(d.ControlPoints, vec(p))
	}
	if sd, ok := seg.StreamData(); ok {
		d.Stream = &StreamView{Start: vec(sd.Start), Direction: vec(sd.Direction), Length: sd.Length}
	}
	if anchor, ok := seg.WaterfallAnchor(); ok {
		v := vec(anchor)
		d.WaterfallAnchor = &v
	}
	if placements, ok := h.course.Placements(id); ok {
		for category, entries := range placements {
			d.PlacementCounts[category] = len(entries)
		}
	}
	if geometry, ok := h.course.Geometry(id); ok {
		for name, mesh := range map[string]*track.Mesh{"floor": geometry.Floor, "wall": geometry.Wall, "water": geometry.Water} {
			if mesh != nil {
				d.Meshes[name] = MeshStats{Vertices: mesh.VertexCount(), Triangles: mesh.TriangleCount()}
			}
		}
	}
	return d, true
}

// GetPlacements 处理 GET /segments/{id}/placements/{category}
func (h *Handler) GetPlacements(w http.ResponseWriter, r *http.Request) {
	id, ok := segmentID(w, r)
	if !ok {
		return
	}
	category := types.PlacementCategory(chi.URLParam(r, "category"))
	if !category.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown placement category")
		return
	}

	h.mu.Lock()
	placements, found := h.course.Placements(id)
	var out []PlacementView
	if found {
		out = make([]PlacementView, 0, len(placements[category]))
		for _, e := range placements[category] {
			out = append(out, PlacementView{
				Position:  vec(e.Position),
				Rotation:  vec(e.Rotation),
				Scale:     vec(e.Scale),
				Elevation: e.Elevation,
				T:         e.T,
			})
		}
	}
	h.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "segment not active")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetState 处理 GET /state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	state := h.course.State()
	view := StateView{
		ActiveIDs:           make([]int, 0, len(state.ActiveSegments)),
		LastGeneratedID:     state.LastGeneratedID,
		LastTriggeredTailID: state.LastTriggeredTailID,
		MeanderPhase:        state.MeanderPhase,
		LastReportedBiome:   state.LastReportedBiome,
	}
	for _, seg := range state.ActiveSegments {
		view.ActiveIDs = append(view.ActiveIDs, seg.ID)
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

// GetDirector 处理 GET /director/{index}
// 导演表是纯函数，任意非负索引都有结果，不要求段处于活动窗口
func (h *Handler) GetDirector(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}

	director := h.course.Director()
	writeJSON(w, http.StatusOK, DirectorView{
		Index:  index,
		Rule:   director.RuleFor(index),
		Config: configView(director.ConfigFor(index)),
	})
}

func segmentID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "segment id must be a non-negative integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Inspect] 写入响应失败: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
