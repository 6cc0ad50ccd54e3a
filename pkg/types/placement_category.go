package types

// PlacementCategory 装饰物类别
type PlacementCategory string

const (
	CategoryRock      PlacementCategory = "rock"      // 大岩石
	CategoryTree      PlacementCategory = "tree"      // 树
	CategoryDebris    PlacementCategory = "debris"    // 水边碎石
	CategoryGrass     PlacementCategory = "grass"     // 草丛
	CategoryReed      PlacementCategory = "reed"      // 芦苇
	CategoryDriftwood PlacementCategory = "driftwood" // 浮木
	CategoryLeaf      PlacementCategory = "leaf"      // 飘落的树叶
	CategoryFirefly   PlacementCategory = "firefly"   // 萤火虫
	CategoryBird      PlacementCategory = "bird"      // 鸟群
	CategoryFish      PlacementCategory = "fish"      // 鱼（仅湖面）
)

// AllPlacementCategories 返回全部类别
// 顺序与放置采样器的求值顺序一致
func AllPlacementCategories() []PlacementCategory {
	return []PlacementCategory{
		CategoryRock,
		CategoryTree,
		CategoryDebris,
		CategoryGrass,
		CategoryReed,
		CategoryDriftwood,
		CategoryLeaf,
		CategoryFirefly,
		CategoryBird,
		CategoryFish,
	}
}

// IsValid 检查类别是否为已知值
func (c PlacementCategory) IsValid() bool {
	for _, known := range AllPlacementCategories() {
		if c == known {
			return true
		}
	}
	return false
}
