// Package di provides a small dependency registry with lazy injection.
//
// A Registry maps identifiers (a Name or a Symbol) to values. Entries are
// stored as-is and re-registering an identifier replaces its value.
//
// # Registration
//
//	registry := di.New(di.WithLogger(log))
//	registry.Register(di.Name("config"), cfg)
//	registry.Register(di.Name("legacy"), old, di.Deprecated())
//
//	di.RegisterType(registry, NewMailer)                  // stores the constructor under "Mailer"
//	di.RegisterInstance(registry, func(newT func() *Cache) (*Cache, error) {
//	    c := newT()
//	    return c, c.Warm()
//	})                                                    // builds *Cache on first use
//
// # Resolution
//
//	cfg, err := di.ResolveAs[*Config](registry, di.Name("config"))
//	if cache, ok := di.TryResolve[*Cache](registry, di.Name("Cache")); ok {
//	    ...
//	}
//
// # Field injection
//
//	type Handler struct {
//	    Config *di.Field[*Config] `inject:"config"`
//	    Mailer *di.Field[*Mailer] `inject:",optional"`
//	}
//
//	h := &Handler{}
//	di.Bind(registry, h)
//	cfg, err := h.Config.Get() // resolved once, then fixed
//
// A deprecated entry logs "Dependency <id> is deprecated" on its first
// successful resolution only.
//
// Failures are *errors.AppError values with codes DEPENDENCY_NOT_FOUND,
// IDENTIFIER_REQUIRED, NO_INSTANTIATION_METHOD, INITIALIZATION_FAILED and
// INJECTOR_FAILED. Optional fields and Lookup turn them into absent values.
package di
