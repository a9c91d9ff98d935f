package filetree

import "context"

// ContentProvider produces the bytes of a file from some source (inline text,
// a local file, an HTTP resource...). Instances are 1:1 with a manifest source entry.
type ContentProvider interface {
	Content(ctx context.Context) ([]byte, error)
}

// ContentSource is a container for concrete provider implementations that can
// be passed to the tree loader
type ContentSource struct {
	ContentProvider
	Priority int `json:"priority,omitempty"` // Lower number = higher priority
}
