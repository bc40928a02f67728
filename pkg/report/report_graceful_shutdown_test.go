package report

import (
	"testing"
	"time"

	"github.com/itohio/goldr/pkg/config"
	"github.com/itohio/goldr/pkg/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTracker_GracefulShutdown tests that the tracker output closes after the
// device closes its reports channel.
func TestTracker_GracefulShutdown(t *testing.T) {
	cfg := config.Default().Mock
	cfg.TickPeriod = time.Millisecond

	dev := link.NewMock(&cfg)
	require.NoError(t, dev.Connect())

	summaries := NewTracker(4, cfg.TickPeriod, 10)(dev.Reports())

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range summaries {
			received++
			if received == 3 {
				dev.Close()
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Summary channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3)
}
