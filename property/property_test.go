package property

import (
	"testing"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func TestList_Lookup(t *testing.T) {
	props := List{
		New("rate", 12.5),
		New("entity_id", 7),
		New("rate", 1.0),
	}

	rate, err := props.Float32("rate")
	require.NoError(t, err)
	require.Equal(t, float32(12.5), rate)

	owner, err := props.Owner()
	require.NoError(t, err)
	require.Equal(t, entity.Id(7), owner)

	require.True(t, props.Has("rate"))
	require.False(t, props.Has("health"))
}

func TestList_Missing(t *testing.T) {
	var props List

	_, err := props.Float64("rate")
	require.True(t, eris.Is(err, ErrMissing))

	_, err = props.Owner()
	require.True(t, eris.Is(err, ErrMissing))
}

func TestProperty_NumericConversion(t *testing.T) {
	value, err := New("health", 100).Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(100), value)

	value, err = New("health", 42.0).Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(42), value)

	_, err = New("health", 42.5).Uint32()
	require.True(t, eris.Is(err, ErrType))

	_, err = New("health", -1).Uint32()
	require.True(t, eris.Is(err, ErrType))

	f, err := New("mass", 3).Float64()
	require.NoError(t, err)
	require.Equal(t, 3.0, f)
}

func TestProperty_TypeMismatch(t *testing.T) {
	_, err := New("movable", "yes").Bool()
	require.True(t, eris.Is(err, ErrType))

	_, err = New("rate", true).Float64()
	require.True(t, eris.Is(err, ErrType))

	_, err = New("name", 1).Text()
	require.True(t, eris.Is(err, ErrType))

	text, err := New("name", "ship").Text()
	require.NoError(t, err)
	require.Equal(t, "ship", text)
}

func TestList_All(t *testing.T) {
	props := List{New("a", 1), New("b", 2), New("c", 3)}

	var names []string
	for p := range props.All() {
		if p.Name == "c" {
			break
		}

		names = append(names, p.Name)
	}

	require.Equal(t, []string{"a", "b"}, names)
}
