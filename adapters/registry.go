package adapters

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/filetree"
)

var (
	ErrUnknownSourceType = errors.New("unknown source type")
	ErrInvalidSource     = errors.New("invalid source")
)

// ProviderFactory builds a content provider from one raw manifest source entry
type ProviderFactory interface {
	NewProvider(raw []byte) (filetree.ContentProvider, error)
}

// FactoryFunc adapts a plain function to [ProviderFactory]
type FactoryFunc func(raw []byte) (filetree.ContentProvider, error)

func (f FactoryFunc) NewProvider(raw []byte) (filetree.ContentProvider, error) {
	return f(raw)
}

// Registry maps a source "type" key to the factory that understands it.
// It is safe for concurrent use.
type Registry struct {
	factories *xsync.Map[string, ProviderFactory]
}

func NewRegistry() *Registry {
	return &Registry{factories: xsync.NewMap[string, ProviderFactory]()}
}

// Register ties a factory to a source type. The first registration for a
// type wins; later ones are ignored.
func (r *Registry) Register(sourceType string, factory ProviderFactory) {
	r.factories.LoadOrStore(sourceType, factory)
}

// GetFactory returns the factory registered for sourceType.
func (r *Registry) GetFactory(sourceType string) (ProviderFactory, error) {
	f, ok := r.factories.Load(sourceType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, sourceType)
	}
	return f, nil
}

// NewProvider picks the right factory based on the "type" field of raw.
// All expected source types should be registered with [Registry.Register]
// before calling this function.
func (r *Registry) NewProvider(raw []byte) (filetree.ContentProvider, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	f, err := r.GetFactory(meta.Type)
	if err != nil {
		return nil, err
	}
	return f.NewProvider(raw)
}

// Len returns the number of registered source types.
func (r *Registry) Len() int {
	return r.factories.Size()
}
