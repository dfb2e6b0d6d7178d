package db

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/fraiseql/fraiseql-go/types"
)

// ShapeRegistry is the catalog of table shapes, filled at application
// start and read-only afterwards. There is no fallback for unregistered
// views and no name-pattern guessing: compiling against a view requires
// its shape to have been registered explicitly.
type ShapeRegistry struct {
	mu     sync.RWMutex
	shapes map[string]*types.TableShape
}

// NewShapeRegistry returns an empty registry.
func NewShapeRegistry() *ShapeRegistry {
	return &ShapeRegistry{shapes: make(map[string]*types.TableShape)}
}

// Register records the shape of a view. Registering the same view twice is
// an error: shapes are immutable once published.
func (r *ShapeRegistry) Register(view string, shape *types.TableShape) error {
	if shape == nil {
		return errors.Errorf("nil table shape for view %q", view)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.shapes[view]; exists {
		return errors.Errorf("table shape for view %q is already registered", view)
	}
	r.shapes[view] = shape
	return nil
}

// Shape returns the registered shape for a view.
func (r *ShapeRegistry) Shape(view string) (*types.TableShape, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shape, ok := r.shapes[view]
	if !ok {
		return nil, errors.Errorf("no table shape registered for view %q", view)
	}
	return shape, nil
}

// Views returns the number of registered views.
func (r *ShapeRegistry) Views() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

// TrinityShape builds the conventional shape of a Trinity-pattern view:
// the internal integer key, the public UUID id and the optional text
// identifier as native columns, everything else inside the "data" JSONB
// payload. Additional promoted columns can be appended.
func TrinityShape(extraColumns ...string) *types.TableShape {
	columns := append([]string{"pk", "id", "identifier"}, extraColumns...)
	return types.NewTableShape(columns, "data")
}
