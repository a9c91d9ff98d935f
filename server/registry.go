package server

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/filetree/config"
	"github.com/brettbedarf/filetree/internal/util"
)

var ErrNamespaceNotFound = errors.New("namespace not found")

// Registry tracks live namespaces by id. It is safe for concurrent use.
type Registry struct {
	cfg        *config.Config
	namespaces *xsync.Map[string, *Namespace]
}

// NewRegistry returns an empty registry whose namespaces all use cfg.
func NewRegistry(cfg *config.Config) *Registry {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Registry{
		cfg:        cfg,
		namespaces: xsync.NewMap[string, *Namespace](),
	}
}

// Create makes a new empty namespace under a fresh random id.
func (r *Registry) Create() (*Namespace, error) {
	logger := util.GetLogger("Registry.Create")

	ns, err := NewNamespace(uuid.NewString(), r.cfg)
	if err != nil {
		return nil, err
	}
	if _, loaded := r.namespaces.LoadOrStore(ns.id, ns); loaded {
		// uuid collision
		return nil, fmt.Errorf("namespace %s already exists", ns.id)
	}
	logger.Debug().Str("namespace", ns.id).Msg("Created namespace")
	return ns, nil
}

func (r *Registry) Get(id string) (*Namespace, bool) {
	return r.namespaces.Load(id)
}

// Delete removes the namespace and destroys its tree.
func (r *Registry) Delete(id string) error {
	logger := util.GetLogger("Registry.Delete")

	ns, ok := r.namespaces.LoadAndDelete(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNamespaceNotFound, id)
	}
	if err := ns.Destroy(); err != nil {
		return err
	}
	logger.Debug().Str("namespace", id).Msg("Deleted namespace")
	return nil
}

func (r *Registry) Len() int {
	return r.namespaces.Size()
}

// Range calls fn for each namespace until fn returns false.
func (r *Registry) Range(fn func(ns *Namespace) bool) {
	r.namespaces.Range(func(_ string, ns *Namespace) bool {
		return fn(ns)
	})
}
