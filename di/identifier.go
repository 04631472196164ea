package di

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/kbukum/injex/errors"
)

// Identifier names a registry slot. Two identifiers address the same slot
// only when they are equal values; dotted names are not merged.
type Identifier interface {
	String() string
	identifier()
}

// Name is a text identifier.
type Name string

func (n Name) String() string { return string(n) }
func (Name) identifier()      {}

// Symbol is an opaque identifier that is unique per NewSymbol call, even
// when two symbols share a description.
type Symbol struct {
	id          uuid.UUID
	description string
}

// NewSymbol creates a fresh symbol.
func NewSymbol(description string) Symbol {
	return Symbol{id: uuid.New(), description: description}
}

func (s Symbol) String() string { return "Symbol(" + s.description + ")" }
func (Symbol) identifier()      {}

// Description returns the description given to NewSymbol.
func (s Symbol) Description() string { return s.description }

// NameOf derives an identifier from the name of T. Pointer types are
// dereferenced, so NameOf[*Mailer] and NameOf[Mailer] both yield "Mailer".
// Unnamed types fail with an IDENTIFIER_REQUIRED error.
func NameOf[T any]() (Identifier, error) {
	return nameOfType(reflect.TypeOf((*T)(nil)).Elem())
}

func nameOfType(t reflect.Type) (Identifier, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return nil, errors.IdentifierRequired()
	}
	return Name(t.Name()), nil
}

// missing reports whether id cannot address a slot.
func missing(id Identifier) bool {
	return id == nil || id == Name("")
}

func identifierString(id Identifier) string {
	if id == nil {
		return ""
	}
	return id.String()
}
