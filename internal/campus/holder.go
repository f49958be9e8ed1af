package campus

import (
	"sync/atomic"
	"time"

	"github.com/vanshika/campusnav/internal/domain"
)

// Snapshot pairs a built graph with the document it was built from. Both are
// published together so readers never see one without the other.
type Snapshot struct {
	Graph    *Graph
	Document domain.MapDocument
	Source   string
	LoadedAt time.Time
}

// Holder publishes the snapshot used by new queries. Swapping installs a fully
// built snapshot in one step; queries already running keep the one they loaded.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a Holder serving s (which may be nil until the first load).
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	if s != nil {
		h.current.Store(s)
	}
	return h
}

// Load returns the current snapshot, or nil if none was installed yet.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Graph returns the current graph, or nil if none was installed yet.
func (h *Holder) Graph() *Graph {
	if s := h.current.Load(); s != nil {
		return s.Graph
	}
	return nil
}

// Swap installs s and returns the snapshot it replaced.
func (h *Holder) Swap(s *Snapshot) *Snapshot {
	return h.current.Swap(s)
}
