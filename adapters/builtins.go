package adapters

import "net/http"

// NOTE: If build bloat becomes a concern for unused sources
// look into build tags i.e. +build !nohttp

type BuiltInSourceType = string

const (
	InlineSourceType BuiltInSourceType = "inline"
	FileSourceType   BuiltInSourceType = "file"
	HTTPSourceType   BuiltInSourceType = "http"
)

// RegisterBuiltins registers all built-in sources on r by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, sources ...BuiltInSourceType) {
	if len(sources) == 0 {
		// Include all built-in sources here when adding implementations
		sources = append(sources, InlineSourceType, FileSourceType, HTTPSourceType)
	}

	for _, key := range sources {
		switch key {
		case InlineSourceType:
			r.Register(InlineSourceType, FactoryFunc(NewInlineSource))
		case FileSourceType:
			r.Register(FileSourceType, FactoryFunc(NewFileSource))
		case HTTPSourceType:
			r.Register(HTTPSourceType, &HTTPProvider{Client: http.DefaultClient})
		}
	}
}

// NewBuiltinRegistry returns a registry with every built-in source registered.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}
