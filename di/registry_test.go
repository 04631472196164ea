package di

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kbukum/injex/errors"
	"github.com/kbukum/injex/logger"
)

func TestRegisterResolve_PreservesIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New()
		key := Name(rapid.StringMatching(`[a-z][a-z0-9._]{0,15}`).Draw(rt, "key"))
		value := &widget{n: rapid.Int().Draw(rt, "n")}

		require.NoError(rt, r.Register(key, value))

		got, err := r.Resolve(key)
		require.NoError(rt, err)
		assert.Same(rt, value, got)
	})
}

func TestRegister_LastWriteWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New()
		model := map[Name]int{}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			key := Name(rapid.SampledFrom([]string{"a", "b", "c", "a.b"}).Draw(rt, "key"))
			value := rapid.Int().Draw(rt, "value")
			require.NoError(rt, r.Register(key, value))
			model[key] = value
		}

		for key, want := range model {
			got, err := r.Resolve(key)
			require.NoError(rt, err)
			assert.Equal(rt, want, got)
		}
	})
}

func TestResolve_Missing(t *testing.T) {
	r := New()

	v, err := r.Resolve(Name("missing"))
	require.Error(t, err)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, errors.ErrDependencyResolution)
	assert.Contains(t, err.Error(), "Dependency missing not found.")

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "missing", appErr.Identifier)

	v, found := r.Lookup(Name("missing"))
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestResolve_ExactKeyOnly(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Name("db.primary"), "primary"))

	_, found := r.Lookup(Name("db"))
	assert.False(t, found, "parent of a dotted name must not resolve")
}

func TestLookup_NilValueIsFound(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Name("nothing"), nil))

	v, found := r.Lookup(Name("nothing"))
	assert.True(t, found)
	assert.Nil(t, v)
}

func TestRegister_MissingIdentifier(t *testing.T) {
	r := New()

	assert.ErrorIs(t, r.Register(nil, 1), errors.ErrIdentifierRequired)

	_, err := r.Resolve(nil)
	assert.ErrorIs(t, err, errors.ErrIdentifierRequired)

	_, found := r.Lookup(nil)
	assert.False(t, found)
}

func TestRegister_EmptyNameIsAKey(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Name(""), 1))
	v, err := r.Resolve(Name(""))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, r.Has(Name("")))
}

func TestSymbol_DistinctSlots(t *testing.T) {
	r := New()
	a := NewSymbol("logger")
	b := NewSymbol("logger")

	require.NoError(t, r.Register(a, "a"))
	require.NoError(t, r.Register(b, "b"))
	require.NoError(t, r.Register(Name("logger"), "name"))

	assert.Equal(t, "a", MustResolve[string](r, a))
	assert.Equal(t, "b", MustResolve[string](r, b))
	assert.Equal(t, "name", MustResolve[string](r, Name("logger")))
}

func TestDeprecation_FallsBackToNamedLogger(t *testing.T) {
	buf := &syncBuffer{}
	logger.Register(LoggerComponent, logger.NewWithWriter(&logger.Config{Level: "warn", Format: "json"}, "fallback", buf))
	t.Cleanup(func() { logger.Register(LoggerComponent, nil) })

	r := New()
	require.NoError(t, r.Register(Name("legacy"), "old", Deprecated()))
	_, err := r.Resolve(Name("legacy"))
	require.NoError(t, err)

	assert.Equal(t, 1, buf.count("Dependency legacy is deprecated"))
}

func TestDeprecation_WarnsOnce(t *testing.T) {
	r, logs := newTestRegistry(t)
	require.NoError(t, r.Register(Name("legacy"), "old", Deprecated()))

	assert.True(t, r.Has(Name("legacy")))
	assert.Equal(t, 0, logs.count("is deprecated"), "Has must not emit the notice")

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(Name("legacy"))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, logs.count("Dependency legacy is deprecated"))
	assert.Contains(t, logs.String(), `"identifier":"legacy"`)
	assert.Contains(t, logs.String(), `"level":"warn"`)

	infos := r.Registrations()
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Deprecated)
}

func TestDeprecation_ReRegisterRearms(t *testing.T) {
	r, logs := newTestRegistry(t)
	require.NoError(t, r.Register(Name("legacy"), 1, Deprecated()))
	_, _ = r.Lookup(Name("legacy"))

	require.NoError(t, r.Register(Name("legacy"), 2, Deprecated()))
	_, _ = r.Lookup(Name("legacy"))
	_, _ = r.Lookup(Name("legacy"))

	assert.Equal(t, 2, logs.count("is deprecated"))
}

func TestDeprecation_ConcurrentResolveWarnsOnce(t *testing.T) {
	r, logs := newTestRegistry(t)
	require.NoError(t, r.Register(Name("legacy"), "old", Deprecated()))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Resolve(Name("legacy"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, logs.count("is deprecated"))
}

func TestRegistrations_SortedAndReset(t *testing.T) {
	r := New()
	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(Name(k), k))
	}

	infos := r.Registrations()
	require.Len(t, infos, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, Name(want), infos[i].Identifier)
	}

	r.Reset()
	assert.Empty(t, r.Registrations())
	assert.False(t, r.Has(Name("a")))
}

func TestRegistry_Metrics(t *testing.T) {
	r, reader := newMeteredRegistry(t)

	require.NoError(t, r.Register(Name("a"), 1))
	require.NoError(t, r.Register(Name("b"), 2, Deprecated()))
	_, _ = r.Resolve(Name("a"))
	_, _ = r.Resolve(Name("b"))
	_, _ = r.Resolve(Name("b"))
	_, _ = r.Lookup(Name("missing"))

	assert.Equal(t, int64(2), counterTotal(t, reader, "injex.registrations"))
	assert.Equal(t, int64(4), counterTotal(t, reader, "injex.resolutions"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "injex.deprecations"))
}

func TestResolveAs(t *testing.T) {
	r := New()
	w := &widget{n: 7}
	require.NoError(t, r.Register(Name("widget"), w))
	require.NoError(t, r.Register(Name("number"), 42))

	got, err := ResolveAs[*widget](r, Name("widget"))
	require.NoError(t, err)
	assert.Same(t, w, got)

	_, err = ResolveAs[*widget](r, Name("number"))
	assert.ErrorIs(t, err, errors.ErrInjector)
	assert.Contains(t, err.Error(), "number")

	_, err = ResolveAs[*widget](r, Name("missing"))
	assert.ErrorIs(t, err, errors.ErrDependencyResolution)
}

func TestTryResolve(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Name("number"), 42))

	n, ok := TryResolve[int](r, Name("number"))
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = TryResolve[string](r, Name("number"))
	assert.False(t, ok)

	_, ok = TryResolve[int](r, Name("missing"))
	assert.False(t, ok)
}

func TestMustResolve_Panics(t *testing.T) {
	r := New()
	assert.Panics(t, func() { MustResolve[int](r, Name("missing")) })
}

func TestGlobal(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	r := New(WithName("app"))
	require.NoError(t, SetGlobal(r))
	assert.Same(t, r, Global())
	assert.ErrorIs(t, SetGlobal(New()), ErrGlobalInitialized)

	require.NoError(t, Register(Name("port"), 8080))
	v, err := Resolve(Name("port"))
	require.NoError(t, err)
	assert.Equal(t, 8080, v)

	_, found := Lookup(Name("missing"))
	assert.False(t, found)

	port, err := ResolveAs[int](nil, Name("port"))
	require.NoError(t, err)
	assert.Equal(t, 8080, port)
}

func TestGlobal_CreatedOnFirstUse(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	first := Global()
	require.NotNil(t, first)
	assert.Same(t, first, Global())
	assert.ErrorIs(t, SetGlobal(New()), ErrGlobalInitialized)
}

func ExampleRegistry_Resolve() {
	r := New()
	_ = r.Register(Name("greeting"), "hello")

	v, _ := r.Resolve(Name("greeting"))
	fmt.Println(v)

	_, err := r.Resolve(Name("farewell"))
	fmt.Println(err)
	// Output:
	// hello
	// DEPENDENCY_NOT_FOUND: Dependency farewell not found.
}
