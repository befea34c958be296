package kindstore

import (
	"fmt"
	"reflect"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/oliverbestmann/kindstore/storage"
)

// KindId is the numeric identifier of a component kind. It is stable across runs
// and used where a kind is only known at runtime.
type KindId uint32

// Initializer parses the construction properties of a component into its value.
// It runs for entity e before the value is inserted. An initializer may read other
// kinds of the world, but must not write to them before it knows that it succeeds.
type Initializer[T any] func(w *World, e entity.Id, props property.List) (T, error)

// Kind describes a component kind: its value type, its storage strategy and its name.
// Kinds are plain values and are usually declared once as package level variables.
type Kind[T any] struct {
	id       KindId
	name     string
	strategy storage.Strategy

	defaultValue bool
	initializer  Initializer[T]
}

// AnyKind is the type erased view on a Kind.
type AnyKind interface {
	Id() KindId
	Name() string
	Strategy() storage.Strategy
	ValueType() reflect.Type

	newStorage(options Options) storage.Container
	create(w *World, e entity.Id, props property.List) error
}

var _ AnyKind = Kind[int]{}

// ExclusiveKind declares a kind whose values are owned by a handle.
func ExclusiveKind[T any](id KindId, name string) Kind[T] {
	return newKind[T](id, name, storage.StrategyExclusive)
}

// ValueKind declares a kind whose values are stored inline. A bool kind is
// stored in its bitmap only.
func ValueKind[T any](id KindId, name string) Kind[T] {
	return newKind[T](id, name, storage.StrategyValue)
}

// SharedKind declares a versioned kind. Writes become visible with the next commit.
func SharedKind[T any](id KindId, name string) Kind[T] {
	return newKind[T](id, name, storage.StrategyShared)
}

func newKind[T any](id KindId, name string, strategy storage.Strategy) Kind[T] {
	if name == "" {
		panic(fmt.Sprintf("kind %d has no name", id))
	}

	return Kind[T]{id: id, name: name, strategy: strategy}
}

// WithInitializer returns a copy of the kind using fn to parse construction properties.
func (k Kind[T]) WithInitializer(fn Initializer[T]) Kind[T] {
	k.initializer = fn
	return k
}

// WithDefault returns a copy of a bool value kind reporting value for entities
// that were never set.
func (k Kind[T]) WithDefault(value bool) Kind[T] {
	if !k.isBool() {
		panic(fmt.Sprintf("kind %q: only bool value kinds support a default value", k.name))
	}

	k.defaultValue = value
	return k
}

func (k Kind[T]) Id() KindId {
	return k.id
}

func (k Kind[T]) Name() string {
	return k.name
}

func (k Kind[T]) Strategy() storage.Strategy {
	return k.strategy
}

func (k Kind[T]) ValueType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (k Kind[T]) String() string {
	return fmt.Sprintf("%s(%d, %s)", k.name, k.id, k.strategy)
}

func (k Kind[T]) isBool() bool {
	return k.strategy == storage.StrategyValue && reflect.TypeFor[T]() == reflect.TypeFor[bool]()
}

func (k Kind[T]) newStorage(options Options) storage.Container {
	config := storage.Config{
		Name:         k.name,
		HistoryDepth: options.HistoryDepth,
		Default:      k.defaultValue,
		CheckWriters: options.CheckWriters,
	}

	switch {
	case k.isBool():
		return storage.NewBool(config)

	case k.strategy == storage.StrategyValue:
		return storage.NewValue[T](config)

	case k.strategy == storage.StrategyExclusive:
		return storage.NewExclusive[T](config)

	case k.strategy == storage.StrategyShared:
		return storage.NewShared[T](config)

	default:
		panic(fmt.Sprintf("kind %q has invalid strategy %s", k.name, k.strategy))
	}
}

func (k Kind[T]) create(w *World, e entity.Id, props property.List) error {
	var value T

	if k.initializer != nil {
		var err error

		value, err = k.initializer(w, e, props)
		if err != nil {
			return err
		}
	}

	Insert(w, k, e, value)

	return nil
}
