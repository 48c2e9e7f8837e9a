package resource

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Reserve(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	release50, err := c.Reserve("heap", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	release40, err := c.Reserve("scratch", 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	_, err = c.Reserve("window", 20)
	require.ErrorIs(t, err, ErrCapacity)
	assert.Contains(t, err.Error(), "window")
	assert.Equal(t, int64(90), c.MemoryUsage())

	release50()
	release50()
	assert.Equal(t, int64(40), c.MemoryUsage())

	release20, err := c.Reserve("window", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())

	release20()
	release40()
	assert.Zero(t, c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{})

	release, err := c.Reserve("heap", 1<<40)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	release()
	assert.Zero(t, c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	release, err := c.Reserve("heap", 10)
	require.NoError(t, err)
	release()

	assert.True(t, c.TryAcquireWorker())
	require.NoError(t, c.AcquireIO(context.Background(), 10))
	assert.False(t, c.Throttled())
	assert.Equal(t, 1, c.MaxWorkers())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.False(t, c.TryAcquireWorker())

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
	assert.Equal(t, 2, c.MaxWorkers())
}

func TestController_RateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	require.True(t, c.Throttled())

	ctx := context.Background()
	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	_, err := w.Write([]byte("records"))
	require.NoError(t, err)

	r := NewRateLimitedReader(ctx, &buf, c)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "records", string(got))
}
