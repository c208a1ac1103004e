package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIDContext(t *testing.T) {
	_, ok := getRunID(context.Background())
	assert.False(t, ok)

	id, ok := getRunID(withRunID(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = getRunID(withRunID(context.Background(), 0))
	assert.False(t, ok, "zero is not a valid run ID")

	_, ok = getRunID(context.WithValue(context.Background(), runIDKey, "42"))
	assert.False(t, ok)
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(context.Background(), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runID, ok := getRunID(ctx)
			assert.True(t, ok, "Goroutine %d: getRunID should return true", id)
			assert.Equal(t, int64(12345), runID, "Goroutine %d: runID should be 12345", id)
		}(i)
	}
	wg.Wait()
}
