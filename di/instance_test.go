package di

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kbukum/injex/errors"
)

type cache struct {
	warmed bool
	hits   int
}

func TestRegisterInstance_ConstructsOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New()
		var built counter

		inst, err := RegisterInstance(r, func(newT func() *cache) (*cache, error) {
			built.inc()
			c := newT()
			c.warmed = true
			return c, nil
		})
		require.NoError(rt, err)
		assert.Equal(rt, 0, built.count(), "construction is deferred")

		accesses := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 20).Draw(rt, "accesses")
		for _, a := range accesses {
			switch a {
			case 0:
				c := inst.MustGet()
				c.hits++
			case 1:
				c := MustResolve[*cache](r, Name("cache"))
				c.hits++
			case 2:
				_, found := r.Lookup(Name("cache"))
				assert.True(rt, found)
			case 3:
				f := Inject[*cache](Name("cache"), From(r))
				assert.True(rt, f.MustGet().warmed)
			}
		}

		assert.Equal(rt, 1, built.count())
		assert.True(rt, inst.Constructed())
	})
}

func TestRegisterInstance_ConcurrentFirstAccess(t *testing.T) {
	r := New()
	var built counter
	inst, err := RegisterInstance(r, func(newT func() *cache) (*cache, error) {
		built.inc()
		return newT(), nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*cache, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i] = inst.MustGet()
			} else {
				results[i] = MustResolve[*cache](r, inst.Identifier())
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, built.count())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestRegisterInstance_SwapsEntry(t *testing.T) {
	r := New()
	inst, err := RegisterInstance[*cache](r, nil)
	require.NoError(t, err)

	before, err := r.Resolve(Name("cache"))
	require.NoError(t, err)
	_, isCache := before.(*cache)
	assert.True(t, isCache, "resolve returns the built instance, not the placeholder")

	r.mu.RLock()
	stored := r.entries[Name("cache")].value
	r.mu.RUnlock()
	assert.Same(t, inst.MustGet(), stored)
}

func TestRegisterInstance_Pending(t *testing.T) {
	r := New()
	inst, err := RegisterInstance[*cache](r, nil, WithIdentifier(Name("c")))
	require.NoError(t, err)
	assert.Equal(t, Name("c"), inst.Identifier())

	infos := r.Registrations()
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Pending)

	inst.MustGet()
	infos = r.Registrations()
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Pending)
}

func TestRegisterInstance_ReplacedBeforeConstruction(t *testing.T) {
	r := New()
	inst, err := RegisterInstance[*cache](r, nil)
	require.NoError(t, err)

	replacement := &cache{hits: 99}
	require.NoError(t, r.Register(Name("cache"), replacement))

	built := inst.MustGet()
	assert.NotSame(t, replacement, built)
	assert.Same(t, replacement, MustResolve[*cache](r, Name("cache")))
}

func TestRegisterInstance_ErrorPropagatesAndRetries(t *testing.T) {
	r, logs := newTestRegistry(t)
	boom := stderrors.New("warm-up failed")

	attempts := 0
	inst, err := RegisterInstance(r, func(newT func() *cache) (*cache, error) {
		attempts++
		if attempts == 1 {
			return nil, boom
		}
		return newT(), nil
	}, Deprecated())
	require.NoError(t, err)

	_, err = r.Resolve(Name("cache"))
	assert.Same(t, boom, err, "the initializer error is not wrapped")
	assert.False(t, inst.Constructed())
	assert.Equal(t, 0, logs.count("is deprecated"), "a failed resolution keeps the deprecation pending")

	c, err := inst.Get()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, attempts)

	_, _ = r.Resolve(Name("cache"))
	assert.Equal(t, 1, logs.count("Dependency cache is deprecated"))
}

func TestRegisterInstance_LookupTreatsFailureAsAbsent(t *testing.T) {
	r := New()
	_, err := RegisterInstance(r, func(func() *cache) (*cache, error) {
		return nil, stderrors.New("unavailable")
	})
	require.NoError(t, err)

	v, found := r.Lookup(Name("cache"))
	assert.False(t, found)
	assert.Nil(t, v)

	_, ok := TryResolve[*cache](r, Name("cache"))
	assert.False(t, ok)
}

func TestRegisterInstance_FieldInjectionFailure(t *testing.T) {
	r := New()
	boom := stderrors.New("unavailable")
	_, err := RegisterInstance(r, func(func() *cache) (*cache, error) { return nil, boom })
	require.NoError(t, err)

	_, err = Inject[*cache](Name("cache"), From(r)).Get()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInjectorFailed), "got %v", err)
	assert.ErrorIs(t, err, boom)

	v, err := Inject[*cache](Name("cache"), From(r), Optional()).Get()
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestRegisterInstance_PanicIsRaised(t *testing.T) {
	r := New()
	inst, err := RegisterInstance(r, func(func() *cache) (*cache, error) { panic("kaboom") })
	require.NoError(t, err)

	assert.PanicsWithValue(t, "kaboom", func() { _, _ = inst.Get() })
	assert.False(t, inst.Constructed())
}

func TestRegisterInstance_Identifier(t *testing.T) {
	r := New()

	_, err := RegisterInstance[struct{ A int }](r, nil)
	assert.ErrorIs(t, err, errors.ErrIdentifierRequired)

	inst, err := RegisterInstance[struct{ A int }](r, nil, WithIdentifier(NewSymbol("anon")))
	require.NoError(t, err)
	v := inst.MustGet()
	assert.Equal(t, 0, v.A)
}

func TestRegisterInstance_RecordsConstruction(t *testing.T) {
	r, reader := newMeteredRegistry(t)
	inst, err := RegisterInstance[*cache](r, nil)
	require.NoError(t, err)

	inst.MustGet()
	inst.MustGet()
	assert.Equal(t, int64(1), counterTotal(t, reader, "injex.constructions"))
}

func TestRegisterInstance_LogsConstruction(t *testing.T) {
	r, logs := newTestRegistry(t)
	boom := stderrors.New("cold start")
	fail := true

	inst, err := RegisterInstance(r, func(newT func() *cache) (*cache, error) {
		if fail {
			return nil, boom
		}
		return newT(), nil
	})
	require.NoError(t, err)

	_, err = inst.Get()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, logs.count("lazy instance construction failed"))
	assert.Contains(t, logs.String(), `"error":"cold start"`)

	fail = false
	inst.MustGet()
	assert.Equal(t, 1, logs.count("lazy instance constructed"))
	assert.Contains(t, logs.String(), `"operation":"construct"`)
	assert.Contains(t, logs.String(), `"identifier":"cache"`)
	assert.Contains(t, logs.String(), `"registry":"test"`)
}
