// Package events publishes campus map lifecycle notifications.
package events

import (
	"context"
	"time"
)

// TopicMapLoaded is published after a map document has been built and swapped in.
const TopicMapLoaded = "campusnav.map.loaded"

// Publisher delivers events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// MapLoaded describes a successful graph (re)load.
type MapLoaded struct {
	Source   string    `json:"source"`
	Nodes    int       `json:"nodes"`
	Edges    int       `json:"edges"`
	LoadedAt time.Time `json:"loaded_at"`
}
