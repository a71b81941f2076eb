package param

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(
		New(0, "Amplitude").Default(0.5).Unit("x").Build(),
		New(1, "Trim").Range(-12, 12).Default(0).Build(),
	)
}

func TestStoreIndexAccess(t *testing.T) {
	s := newTestStore()
	require.Equal(t, 2, s.Count())

	v, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	require.NoError(t, s.Set(1, 6))
	v, err = s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	p, err := s.Param(1)
	require.NoError(t, err)
	assert.Equal(t, "Trim", p.Name)
	assert.Same(t, p, s.ByID(1))
	assert.Nil(t, s.ByID(42))
}

func TestStoreOutOfBounds(t *testing.T) {
	s := newTestStore()

	for _, index := range []int{-1, 2, 100} {
		_, err := s.Get(index)
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)

		err = s.Set(index, 1)
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)

		p, err := s.Param(index)
		assert.ErrorIs(t, err, ErrIndexOutOfBounds)
		assert.Nil(t, p)
	}
}

func TestStoreNonFinite(t *testing.T) {
	s := newTestStore()
	err := s.Set(0, math.NaN())
	assert.ErrorIs(t, err, ErrNonFinite)

	v, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestStoreResetAndAll(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Set(0, 0.9))
	require.NoError(t, s.Set(1, -3))

	s.Reset()
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, 0.5, all[0].Value())
	assert.Equal(t, 0.0, all[1].Value())

	// The returned slice is a copy.
	all[0] = nil
	p, err := s.Param(0)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

// Every value read while writers race must be one of the values written;
// a bit-mixed float would fall outside the set.
func TestStoreConcurrentNoTornValues(t *testing.T) {
	s := newTestStore()
	written := []float64{0.5, -1.0000000001, 3.75e10, 0.125, -7.25e-300, 1}
	valid := make(map[uint64]bool, len(written))
	for _, v := range written {
		valid[math.Float64bits(v)] = true
	}

	const iterations = 20000
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = s.Set(0, written[(i+offset)%len(written)])
			}
		}(w)
	}

	torn := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < iterations*4; i++ {
			v, _ := s.Get(0)
			if !valid[math.Float64bits(v)] {
				torn++
			}
		}
	}()

	wg.Wait()
	<-done
	assert.Zero(t, torn)
}
