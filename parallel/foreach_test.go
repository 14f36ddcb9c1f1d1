package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach(t *testing.T) {
	var seen = make([]int32, 100)
	err := ForEach(context.Background(), len(seen), 4, func(_ context.Context, i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	})
	require.NoError(t, err)
	for i, v := range seen {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
}

func TestForEachError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach(context.Background(), 50, 2, func(_ context.Context, i int) error {
		if i == 7 {
			return boom
		}
		return nil
	})
	assert.Equal(t, boom, err)
}

func TestForEachEmpty(t *testing.T) {
	called := false
	err := ForEach(context.Background(), 0, 0, func(context.Context, int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestChunks(t *testing.T) {
	for _, tc := range []struct {
		name   string
		length int
		limit  int
	}{
		{"even", 100, 4},
		{"odd", 17, 5},
		{"more workers than rows", 3, 8},
		{"single", 1, 1},
		{"default limit", 1000, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var seen = make([]int32, tc.length)
			err := Chunks(context.Background(), tc.length, tc.limit, func(from, to int) error {
				for i := from; i < to; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for i, v := range seen {
				assert.Equal(t, int32(1), v, "index %d", i)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	assert.Greater(t, Limit(), 0)
}
