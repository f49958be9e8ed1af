package campus

// entry is a tentative distance for a node awaiting finalization.
type entry struct {
	node int
	dist float64
	seq  uint64
}

// frontier is a binary min-heap of entries ordered by distance. Entries with
// equal distance pop in insertion order, which keeps repeated queries stable.
// Stale entries are left in place and skipped when popped.
type frontier []entry

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(entry)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
