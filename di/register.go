package di

// RegisterType registers the constructor of T, not an instance, under
// WithIdentifier or, by default, T's own name, and returns the identifier
// used. A nil ctor allocates a new T for pointer types and returns the zero
// value otherwise. A nil r means the global registry.
//
//	id, err := di.RegisterType(registry, NewMailer, di.Deprecated())
//
// The stored func() T is what InjectNew builds field values from.
func RegisterType[T any](r *Registry, ctor func() T, opts ...Option) (Identifier, error) {
	o := applyOptions(opts)

	id := o.id
	if missing(id) {
		var err error
		if id, err = NameOf[T](); err != nil {
			return nil, err
		}
	}
	if ctor == nil {
		ctor = zeroConstructor[T]()
	}

	if err := orGlobal(r).Register(id, ctor, opts...); err != nil {
		return nil, err
	}
	return id, nil
}
