package requests

import (
	"github.com/brettbedarf/filetree"
)

// NodeRequestDTO is the JSON representation of [filetree.NodeRequest]
type NodeRequestDTO struct {
	Path string            `json:"path"`
	Type filetree.NodeType `json:"type"`
	UUID *string           `json:"uuid,omitempty"` // Optional id to correlate load results
}

// FileRequestDTO is the JSON representation of [filetree.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO
	Sources []SourceConfigDTO `json:"sources"`
}

type DirRequestDTO struct {
	NodeRequestDTO
}

// SourceConfigDTO is the JSON representation of static [filetree.ContentSource] fields
//
// Additional fields depend on the "type" value:
//
// Ex. For type="http" (see [adapters.HTTPSource]):
//
//	URL     string            `json:"url"`
//	Method  *string           `json:"method,omitempty"`
//	Headers map\[string\]string `json:"headers,omitempty"`
//
// See adapters package for built-ins complete field specifications.
type SourceConfigDTO struct {
	Type     string `json:"type"`
	Priority *int   `json:"priority,omitempty"` // Lower number = higher priority, defaults to array index
}

// Manifest is a parsed manifest: every directory and file request in the
// order they were listed.
type Manifest struct {
	Dirs  []*filetree.DirCreateRequest
	Files []*filetree.FileCreateRequest
}

// Len returns the total number of requests.
func (m *Manifest) Len() int {
	return len(m.Dirs) + len(m.Files)
}
