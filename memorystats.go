package heliogo

import "github.com/ehrlich-b/heliogo/internal/memory"

// MemoryStats bundles both regions' statistics in one read, the combined
// accessor the original source's xMemGetHeapStats/xMemGetKernelStats pair
// is generalized into here.
type MemoryStats struct {
	Kernel memory.Stats
	User   memory.Stats
}

// MemoryStats reads both regions' current statistics.
func (k *Kernel) MemoryStats() MemoryStats {
	return MemoryStats{
		Kernel: k.Kernel.Stats(),
		User:   k.User.Stats(),
	}
}
