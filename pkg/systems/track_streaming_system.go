package systems

import (
	"fmt"
	"log"
	"time"

	"github.com/gonewx/watershed/pkg/components"
	"github.com/gonewx/watershed/pkg/config"
	"github.com/gonewx/watershed/pkg/ecs"
	"github.com/gonewx/watershed/pkg/track"
	"github.com/gonewx/watershed/pkg/types"
	"github.com/gonewx/watershed/pkg/utils"
)

// ParkedSegmentID 停放槽位的段ID
const ParkedSegmentID = -1

// TrackObserver 流式加载事件观察者（可选）
// 回调在 Update 内同步调用，实现方不应阻塞
type TrackObserver interface {
	// OnSegmentGenerated 新段生成并挂载完成；elapsed 为生成→采样→合成的总耗时
	OnSegmentGenerated(seg *track.Segment, placements track.Placements, geometry track.SegmentGeometry, elapsed time.Duration)
	// OnSegmentEvicted 段被移出活动窗口
	OnSegmentEvicted(seg *track.Segment)
	// OnBiomeChanged 最近段的群系发生变化
	OnBiomeChanged(from, to types.Biome)
}

// TrackStreamingSystem 赛道流式加载系统
//
// 持有唯一的 StreamingState 和固定数量的挂载槽实体。每帧用镜头位置
// 检查一次生成阈值：镜头到当前末段尾点的 Z 距离小于阈值时生成下一段，
// 同一个末段只触发一次；活动段超过上限时淘汰最旧的段并停放其槽位。
//
// 所有状态只在 Update 中修改，不是并发安全的。
type TrackStreamingSystem struct {
	entityManager *ecs.EntityManager
	director      *config.LevelDirector
	cfg           config.StreamingConfig

	state       *track.StreamingState
	generator   *track.Generator
	sampler     *track.Sampler
	synthesizer *track.Synthesizer

	// slots[i] 为第 i 个挂载槽实体；段 id 挂载在 slots[id % PoolSize]
	slots  []ecs.EntityID
	parked *track.Segment

	observer      TrackObserver
	onBiomeChange func(types.Biome)
	biomeReported bool
}

// NewTrackStreamingSystem 创建赛道流式加载系统
// 参数：
//   - em: 实体管理器，挂载槽以实体形式创建
//   - director: 关卡导演
//   - cfg: 流式参数（非法时返回错误）
//   - runSeed: 本次运行的种子
//
// 返回：
//   - 初始状态包含两个种子段（id 0、1），已完成采样和几何合成
func NewTrackStreamingSystem(em *ecs.EntityManager, director *config.LevelDirector, cfg config.StreamingConfig, runSeed uint64) (*TrackStreamingSystem, error) {
	if director == nil {
		return nil, fmt.Errorf("failed to create track streaming system: director is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create track streaming system: %w", err)
	}

	s := &TrackStreamingSystem{
		entityManager: em,
		director:      director,
		cfg:           cfg,
		state:         track.NewStreamingState(director),
		generator:     track.NewGenerator(director, cfg.ExtensionSteps, runSeed),
		sampler:       track.NewSampler(cfg.PlacementStepLength),
		synthesizer:   track.NewSynthesizer(),
		slots:         make([]ecs.EntityID, cfg.PoolSize),
		parked:        parkedSegment(director, cfg.ParkedY),
	}

	for i := range s.slots {
		id := em.CreateEntity()
		s.slots[i] = id
		ecs.AddComponent(em, id, &components.TrackSlotComponent{Index: i})
		ecs.AddComponent(em, id, &components.SegmentGeometryComponent{})
		ecs.AddComponent(em, id, &components.PlacementComponent{})
		s.park(i)
	}

	for _, seg := range s.state.ActiveSegments {
		s.mount(seg)
	}

	log.Printf("[TrackStreamingSystem] 初始化完成: %d 个槽位, 活动段 %d..%d, seed=%d",
		cfg.PoolSize, s.state.Oldest().ID, s.state.Newest().ID, runSeed)
	return s, nil
}

// parkedSegment 停放槽位挂载的哨兵段，远离可玩区域
func parkedSegment(director *config.LevelDirector, y float64) *track.Segment {
	return &track.Segment{
		ID: ParkedSegmentID,
		ControlPoints: []utils.Vec3{
			{X: 0, Y: y, Z: 0},
			{X: 0, Y: y, Z: -1},
		},
		Config: director.Base,
	}
}

// SetObserver 设置事件观察者（nil 表示不观察）
func (s *TrackStreamingSystem) SetObserver(observer TrackObserver) {
	s.observer = observer
}

// SetBiomeChangeCallback 设置群系变化回调
// 每帧最多调用一次，且只在最近段的群系与上次报告的不同时调用
func (s *TrackStreamingSystem) SetBiomeChangeCallback(fn func(types.Biome)) {
	s.onBiomeChange = fn
}

// Update 每帧调用一次
// 参数：
//   - cameraPos: 镜头（或玩家）的世界坐标
//
// 返回：
//   - 本帧生成的新段；未触发时返回 nil
func (s *TrackStreamingSystem) Update(cameraPos utils.Vec3) *track.Segment {
	var generated *track.Segment

	tail := s.state.Newest()
	if tail != nil && tail.ID != s.state.LastTriggeredTailID {
		if cameraPos.Z-tail.Tail().Z < s.cfg.GenerationThreshold {
			s.state.LastTriggeredTailID = tail.ID
			generated = s.extend(tail)
		}
	}

	s.reportBiome(cameraPos)
	return generated
}

// extend 生成并挂载下一段，必要时淘汰最旧的段
func (s *TrackStreamingSystem) extend(tail *track.Segment) *track.Segment {
	start := time.Now()

	index := s.state.LastGeneratedID + 1
	seg := s.generator.Next(s.state, tail, index)
	s.state.ActiveSegments = append(s.state.ActiveSegments, seg)
	s.state.LastGeneratedID = index

	// 先淘汰再挂载：PoolSize == MaxActiveSegments 时新段与被淘汰段共用槽位
	for len(s.state.ActiveSegments) > s.cfg.MaxActiveSegments {
		s.evict(s.state.EvictOldest())
	}

	placements, geometry := s.mount(seg)
	elapsed := time.Since(start)

	log.Printf("[TrackStreamingSystem] 生成段 %d (规则=%s, 类型=%s, 群系=%s, 长度=%.1f, 装饰物=%d, 耗时=%v)",
		seg.ID, s.director.RuleFor(seg.ID), seg.Config.Type, seg.Config.Biome, seg.Length(), placements.Total(), elapsed)

	if s.observer != nil {
		s.observer.OnSegmentGenerated(seg, placements, geometry, elapsed)
	}
	return seg
}

func (s *TrackStreamingSystem) evict(seg *track.Segment) {
	if seg == nil {
		return
	}
	slot := s.slotIndex(seg.ID)
	if comp, ok := ecs.GetComponent[*components.TrackSlotComponent](s.entityManager, s.slots[slot]); ok && comp.SegmentID == seg.ID {
		s.park(slot)
	}

	log.Printf("[TrackStreamingSystem] 淘汰段 %d", seg.ID)
	if s.observer != nil {
		s.observer.OnSegmentEvicted(seg)
	}
}

// mount 在 id % PoolSize 槽位上挂载段，计算其装饰物和几何
func (s *TrackStreamingSystem) mount(seg *track.Segment) (track.Placements, track.SegmentGeometry) {
	slot := s.slotIndex(seg.ID)
	entity := s.slots[slot]

	placements := s.sampler.Sample(seg)
	geometry := s.synthesizer.Build(seg)

	if comp, ok := ecs.GetComponent[*components.TrackSlotComponent](s.entityManager, entity); ok {
		comp.SegmentID = seg.ID
		comp.Segment = seg
		comp.Parked = false
		comp.Revision++
	}
	if comp, ok := ecs.GetComponent[*components.SegmentGeometryComponent](s.entityManager, entity); ok {
		comp.Geometry = geometry
	}
	if comp, ok := ecs.GetComponent[*components.PlacementComponent](s.entityManager, entity); ok {
		comp.Placements = placements
	}
	return placements, geometry
}

// park 停放槽位：挂载哨兵段，丢弃旧段的网格和装饰物引用
func (s *TrackStreamingSystem) park(slot int) {
	entity := s.slots[slot]
	if comp, ok := ecs.GetComponent[*components.TrackSlotComponent](s.entityManager, entity); ok {
		comp.SegmentID = ParkedSegmentID
		comp.Segment = s.parked
		comp.Parked = true
		comp.Revision++
	}
	if comp, ok := ecs.GetComponent[*components.SegmentGeometryComponent](s.entityManager, entity); ok {
		comp.Geometry = track.SegmentGeometry{}
	}
	if comp, ok := ecs.GetComponent[*components.PlacementComponent](s.entityManager, entity); ok {
		comp.Placements = s.sampler.Sample(nil)
	}
}

func (s *TrackStreamingSystem) slotIndex(id int) int {
	return id % s.cfg.PoolSize
}

// reportBiome 最近段的群系与上次报告不同时通知
func (s *TrackStreamingSystem) reportBiome(cameraPos utils.Vec3) {
	nearest := s.NearestSegment(cameraPos)
	if nearest == nil {
		return
	}
	biome := nearest.Config.Biome
	if s.biomeReported && biome == s.state.LastReportedBiome {
		return
	}

	from := s.state.LastReportedBiome
	s.state.LastReportedBiome = biome
	s.biomeReported = true

	log.Printf("[TrackStreamingSystem] 群系变化: %q -> %s (段 %d)", from, biome, nearest.ID)
	if s.onBiomeChange != nil {
		s.onBiomeChange(biome)
	}
	if s.observer != nil {
		s.observer.OnBiomeChanged(from, biome)
	}
}

// NearestSegment 返回控制点离 pos 最近的活动段
func (s *TrackStreamingSystem) NearestSegment(pos utils.Vec3) *track.Segment {
	var nearest *track.Segment
	best := -1.0
	for _, seg := range s.state.ActiveSegments {
		d := seg.DistanceTo(pos)
		if d < 0 {
			continue
		}
		if nearest == nil || d < best {
			nearest, best = seg, d
		}
	}
	return nearest
}

// State 返回流式状态（只读使用）
func (s *TrackStreamingSystem) State() *track.StreamingState {
	return s.state
}

// Config 返回流式参数
func (s *TrackStreamingSystem) Config() config.StreamingConfig {
	return s.cfg
}

// Director 返回关卡导演
func (s *TrackStreamingSystem) Director() *config.LevelDirector {
	return s.director
}

// ActiveSegments 返回活动段（从旧到新）
func (s *TrackStreamingSystem) ActiveSegments() []*track.Segment {
	return s.state.ActiveSegments
}

// Segment 按ID查找活动段
func (s *TrackStreamingSystem) Segment(id int) (*track.Segment, bool) {
	seg := s.state.Find(id)
	return seg, seg != nil
}

// Slots 返回全部挂载槽实体（按槽位序号）
func (s *TrackStreamingSystem) Slots() []ecs.EntityID {
	return s.slots
}

// SlotEntity 返回活动段所在的槽位实体
func (s *TrackStreamingSystem) SlotEntity(id int) (ecs.EntityID, bool) {
	if id < 0 || s.state.Find(id) == nil {
		return 0, false
	}
	return s.slots[s.slotIndex(id)], true
}

// Placements 返回活动段的装饰物
func (s *TrackStreamingSystem) Placements(id int) (track.Placements, bool) {
	entity, ok := s.SlotEntity(id)
	if !ok {
		return nil, false
	}
	comp, ok := ecs.GetComponent[*components.PlacementComponent](s.entityManager, entity)
	if !ok {
		return nil, false
	}
	return comp.Placements, true
}

// Geometry 返回活动段的网格
func (s *TrackStreamingSystem) Geometry(id int) (track.SegmentGeometry, bool) {
	entity, ok := s.SlotEntity(id)
	if !ok {
		return track.SegmentGeometry{}, false
	}
	comp, ok := ecs.GetComponent[*components.SegmentGeometryComponent](s.entityManager, entity)
	if !ok {
		return track.SegmentGeometry{}, false
	}
	return comp.Geometry, true
}
