package components

import "github.com/gonewx/watershed/pkg/track"

// TrackSlotComponent 赛道挂载槽
//
// 挂载槽数量固定，段ID对 PoolSize 取模得到槽位。槽位被新段占用时
// 旧的网格和装饰物组件会被替换，渲染层按 SegmentID 判断是否需要重建。
type TrackSlotComponent struct {
	// Index 槽位序号 [0, PoolSize)
	Index int
	// SegmentID 当前挂载的段ID；停放时为 -1
	SegmentID int
	// Parked 槽位处于停放状态（挂载哨兵段，远离可玩区域）
	Parked bool
	// Segment 挂载的段（停放时为哨兵段）
	Segment *track.Segment
	// Revision 每次重新挂载递增，供缓存判断失效
	Revision uint64
}

// SegmentGeometryComponent 槽位当前段的网格
type SegmentGeometryComponent struct {
	Geometry track.SegmentGeometry
}

// PlacementComponent 槽位当前段的装饰物
type PlacementComponent struct {
	Placements track.Placements
}
