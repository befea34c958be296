// Package property holds the construction properties a component kind is
// initialized from. Properties usually originate from a scenario file, so
// numeric values are converted between types on access.
package property

import (
	"fmt"
	"iter"
	"math"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/rotisserie/eris"
)

var (
	ErrMissing = eris.New("property is missing")
	ErrType    = eris.New("property has an unexpected type")
)

// EntityId is the name of the property holding the id of the entity a component is created for.
const EntityId = "entity_id"

type Property struct {
	Name  string
	Value any
}

func New(name string, value any) Property {
	return Property{Name: name, Value: value}
}

func (p Property) String() string {
	return fmt.Sprintf("%s=%v", p.Name, p.Value)
}

func (p Property) Float64() (float64, error) {
	switch value := p.Value.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case int32:
		return float64(value), nil
	case uint32:
		return float64(value), nil
	case uint64:
		return float64(value), nil
	default:
		return 0, p.typeError("float")
	}
}

func (p Property) Float32() (float32, error) {
	value, err := p.Float64()
	return float32(value), err
}

func (p Property) Uint32() (uint32, error) {
	var value int64

	switch v := p.Value.(type) {
	case uint32:
		return v, nil
	case entity.Id:
		return uint32(v), nil
	case int:
		value = int64(v)
	case int64:
		value = v
	case int32:
		value = int64(v)
	case uint64:
		if v > math.MaxUint32 {
			return 0, p.rangeError()
		}
		return uint32(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, p.typeError("integer")
		}
		value = int64(v)
	default:
		return 0, p.typeError("integer")
	}

	if value < 0 || value > math.MaxUint32 {
		return 0, p.rangeError()
	}

	return uint32(value), nil
}

func (p Property) Bool() (bool, error) {
	value, ok := p.Value.(bool)
	if !ok {
		return false, p.typeError("bool")
	}

	return value, nil
}

func (p Property) Text() (string, error) {
	value, ok := p.Value.(string)
	if !ok {
		return "", p.typeError("string")
	}

	return value, nil
}

func (p Property) EntityId() (entity.Id, error) {
	value, err := p.Uint32()
	return entity.Id(value), err
}

func (p Property) typeError(expected string) error {
	return eris.Wrapf(ErrType, "property %q: expected %s, got %T", p.Name, expected, p.Value)
}

func (p Property) rangeError() error {
	return eris.Wrapf(ErrType, "property %q: value %v out of range", p.Name, p.Value)
}

// List is an ordered list of properties. Lookups return the first property of a name.
type List []Property

func (l List) All() iter.Seq[Property] {
	return func(yield func(Property) bool) {
		for _, p := range l {
			if !yield(p) {
				return
			}
		}
	}
}

func (l List) Lookup(name string) (Property, bool) {
	for _, p := range l {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

func (l List) Has(name string) bool {
	_, ok := l.Lookup(name)
	return ok
}

func (l List) Get(name string) (Property, error) {
	p, ok := l.Lookup(name)
	if !ok {
		return Property{}, eris.Wrapf(ErrMissing, "property %q", name)
	}

	return p, nil
}

func (l List) Float64(name string) (float64, error) {
	p, err := l.Get(name)
	if err != nil {
		return 0, err
	}

	return p.Float64()
}

func (l List) Float32(name string) (float32, error) {
	p, err := l.Get(name)
	if err != nil {
		return 0, err
	}

	return p.Float32()
}

func (l List) Uint32(name string) (uint32, error) {
	p, err := l.Get(name)
	if err != nil {
		return 0, err
	}

	return p.Uint32()
}

func (l List) Bool(name string) (bool, error) {
	p, err := l.Get(name)
	if err != nil {
		return false, err
	}

	return p.Bool()
}

func (l List) EntityId(name string) (entity.Id, error) {
	p, err := l.Get(name)
	if err != nil {
		return 0, err
	}

	return p.EntityId()
}

// Owner returns the entity named by the entity_id property.
func (l List) Owner() (entity.Id, error) {
	return l.EntityId(EntityId)
}

func (l List) Text(name string) (string, error) {
	p, err := l.Get(name)
	if err != nil {
		return "", err
	}

	return p.Text()
}
