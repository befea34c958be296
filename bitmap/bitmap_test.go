package bitmap

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/oliverbestmann/kindstore/entity"
	"github.com/stretchr/testify/require"
)

func TestBitmap_Default(t *testing.T) {
	b := New(false)
	require.False(t, b.Get(12))
	require.False(t, b.DefaultValue())

	b.Set(12, true)
	require.True(t, b.Get(12))
	require.False(t, b.Get(11))

	// setting twice is idempotent
	b.Set(12, true)
	require.Equal(t, 1, b.Exceptions())

	// setting the default value drops the entry
	b.Set(12, false)
	require.False(t, b.Get(12))
	require.Equal(t, 0, b.Exceptions())

	// clearing an id that was never stored is fine
	b.Set(1000, false)
	require.Equal(t, 0, b.Exceptions())
}

func TestBitmap_Size(t *testing.T) {
	b := New(false)
	require.Zero(t, b.Size())

	b.Set(12, true)
	require.Equal(t, 13, b.Size())

	b.Set(3, true)
	require.Equal(t, 13, b.Size())

	// clearing keeps the size, it covers every id ever stored
	b.Set(12, false)
	require.Equal(t, 13, b.Size())
	require.Equal(t, 1, b.Exceptions())

	// storing the default value of an id beyond the size stores nothing
	b.Set(100, false)
	require.Equal(t, 13, b.Size())
}

func TestBitmap_MostlyTrue(t *testing.T) {
	b := New(true)
	require.True(t, b.Get(5000))

	b.Set(3, false)
	require.False(t, b.Get(3))
	require.True(t, b.Get(4))

	ids := slices.Collect(b.All(6))
	require.Equal(t, []entity.Id{0, 1, 2, 4, 5}, ids)
	require.Equal(t, 5, b.Count(6))
}

func TestBitmap_AllIgnoresCeilingWhenDefaultFalse(t *testing.T) {
	b := New(false)
	b.Set(2, true)
	b.Set(20_000, true)

	require.Equal(t, []entity.Id{2, 20_000}, slices.Collect(b.All(10)))
}

func TestBitmap_AllSpansSizeWhenLargerThanCeiling(t *testing.T) {
	b := New(true)
	b.Set(30, false)

	ids := slices.Collect(b.All(10))
	require.Len(t, ids, 30)
	require.NotContains(t, ids, entity.Id(30))
}

func TestBitmap_And(t *testing.T) {
	cases := []struct{ a, b bool }{
		{false, false},
		{false, true},
		{true, false},
		{true, true},
	}

	for _, tc := range cases {
		a := randomBitmap(tc.a, 1)
		b := randomBitmap(tc.b, 2)

		result := a.And(b)
		require.Equal(t, tc.a && tc.b, result.DefaultValue())

		for id := range entity.Id(300) {
			require.Equal(t, a.Get(id) && b.Get(id), result.Get(id), "id %s", id)
		}
	}
}

func TestBitmap_Or(t *testing.T) {
	cases := []struct{ a, b bool }{
		{false, false},
		{false, true},
		{true, false},
		{true, true},
	}

	for _, tc := range cases {
		a := randomBitmap(tc.a, 3)
		b := randomBitmap(tc.b, 4)

		result := a.Or(b)
		require.Equal(t, tc.a || tc.b, result.DefaultValue())

		for id := range entity.Id(300) {
			require.Equal(t, a.Get(id) || b.Get(id), result.Get(id), "id %s", id)
		}
	}
}

func TestBitmap_Not(t *testing.T) {
	b := New(false)
	b.Set(3, true)

	not := b.Not()
	require.True(t, not.DefaultValue())
	require.False(t, not.Get(3))
	require.True(t, not.Get(4))

	// and with the negation is always false
	require.Equal(t, 0, b.And(not).Count(100))
	require.True(t, not.Not().Equal(b))
}

func TestBitmap_CloneIsIndependent(t *testing.T) {
	a := New(false)
	a.Set(1, true)

	b := a.Clone()
	b.Set(2, true)

	require.False(t, a.Get(2))
	require.True(t, b.Get(1))
	require.False(t, a.Equal(b))

	a.Set(2, true)
	require.True(t, a.Equal(b))
}

func randomBitmap(def bool, seed uint64) *Bitmap {
	rng := rand.New(rand.NewPCG(seed, seed))

	b := New(def)
	for range 100 {
		b.Set(entity.Id(rng.IntN(256)), rng.IntN(2) == 0)
	}

	return b
}

func BenchmarkBitmap_And(b *testing.B) {
	x := randomBitmap(false, 1)
	y := randomBitmap(false, 2)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		_ = x.And(y)
	}
}
