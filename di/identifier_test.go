package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/injex/errors"
)

type Mailer struct{}

func TestNameOf(t *testing.T) {
	id, err := NameOf[widget]()
	require.NoError(t, err)
	assert.Equal(t, Name("widget"), id)

	id, err = NameOf[**Mailer]()
	require.NoError(t, err)
	assert.Equal(t, Name("Mailer"), id)
}

func TestNameOf_Anonymous(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (Identifier, error)
	}{
		{"struct literal", NameOf[struct{ A int }]},
		{"func", NameOf[func() int]},
		{"slice", NameOf[[]widget]},
		{"pointer to struct literal", NameOf[*struct{}]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := tc.fn()
			assert.Nil(t, id)
			assert.ErrorIs(t, err, errors.ErrIdentifierRequired)
		})
	}
}

func TestSymbol(t *testing.T) {
	a := NewSymbol("db")
	b := NewSymbol("db")

	assert.Equal(t, "Symbol(db)", a.String())
	assert.Equal(t, "db", a.Description())
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, a)
}
