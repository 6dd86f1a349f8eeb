package filterkit

// Registry maps data-source descriptors to the adapters able to serve them.
// Registration happens at wiring time; after that the registry is read-only
// and safe for concurrent resolution.
type Registry struct {
	handlers []Handler
}

// NewRegistry builds a registry over the given adapters. Resolution order
// follows registration order.
func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{handlers: handlers}
}

// Register appends an adapter. Not safe to call concurrently with Resolve;
// wire the registry up front.
func (r *Registry) Register(handler Handler) {
	r.handlers = append(r.handlers, handler)
}

// Resolve returns the first registered adapter whose capability probe accepts
// the source's element type. The check runs before any compilation or
// execution attempt.
func (r *Registry) Resolve(src Source) (Handler, error) {
	elem := src.Element()
	for _, handler := range r.handlers {
		if handler.CanHandle(elem) {
			return handler, nil
		}
	}

	return nil, &UnsupportedTypeError{Element: elem, Kind: src.Kind()}
}

// ResolveAdapter resolves a source and narrows the handler to the typed
// adapter contract for T.
func ResolveAdapter[T any](r *Registry, src Source) (Adapter[T], error) {
	handler, err := r.Resolve(src)
	if err != nil {
		return nil, err
	}

	adapter, ok := handler.(Adapter[T])
	if !ok {
		return nil, &UnsupportedTypeError{Element: src.Element(), Kind: src.Kind()}
	}

	return adapter, nil
}
