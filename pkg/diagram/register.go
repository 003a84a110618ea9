package diagram

import (
	"errors"

	"github.com/matzehuels/umlstack/pkg/catalog"
	"github.com/matzehuels/umlstack/pkg/model"
)

var variants = map[string]string{
	"Class":      KindClass,
	"Package":    KindPackage,
	"Component":  KindComponent,
	"Deployment": KindDeployment,
	"UseCase":    KindUseCase,
	"Object":     KindObject,
}

// RegisterOption configures the diagrams built by the catalog.
type RegisterOption func(*registration)

type registration struct {
	cache *SidecarCache
}

// WithSidecarCache makes every diagram built by the catalog read its
// sidecar through c.
func WithSidecarCache(c *SidecarCache) RegisterOption {
	return func(r *registration) { r.cache = c }
}

// Register subscribes the diagram kind and one variant per diagram type.
func Register(c *catalog.Catalog, opts ...RegisterOption) error {
	reg := &registration{}
	for _, opt := range opts {
		opt(reg)
	}
	build := func(id model.ID, kind string) *Diagram {
		d := New(id)
		d.SetKind(kind)
		d.SetSidecarCache(reg.cache)
		return d
	}

	errList := []error{
		c.Subscribe(ClassName, func(id model.ID) model.Element { return build(id, KindClass) }),
	}
	for variant, kind := range variants {
		errList = append(errList, c.Subscribe(catalog.Variant(ClassName, variant), func(id model.ID) model.Element {
			return build(id, kind)
		}))
	}
	return errors.Join(errList...)
}
