package utils

import "math/rand/v2"

// Stream 可注入的确定性随机数流
//
// 基于 PCG（math/rand/v2 保证算法输出跨版本稳定），
// 同一对种子永远产生同一序列。每次 Float64 调用推进一次计数器。
type Stream struct {
	rng   *rand.Rand
	draws uint64
}

// streamSalt PCG 第二个种子字，用于区分不同用途的流
const streamSalt = 0x9e3779b97f4a7c15

// NewStream 创建以 seed 为种子的随机流
func NewStream(seed uint64) *Stream {
	return &Stream{rng: rand.New(rand.NewPCG(seed, streamSalt))}
}

// DeriveSeed 由基础种子和索引派生子流种子（splitmix64 混合）
// 相邻索引得到的种子相互独立
func DeriveSeed(base uint64, index uint64) uint64 {
	z := base + (index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 返回 [0, 1) 内的下一个值
func (s *Stream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// Fill 用连续的 len(dst) 个值填充 dst
func (s *Stream) Fill(dst []float64) {
	for i := range dst {
		dst[i] = s.Float64()
	}
}

// Draws 返回已消耗的随机数个数
func (s *Stream) Draws() uint64 {
	return s.draws
}
