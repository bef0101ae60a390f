package events

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"procurement_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinged struct {
	BaseEvent
}

func (pinged) EventName() string { return "test.pinged" }

func TestPublishSync_RunsHandlersAndJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.NewWithWriter("test", io.Discard))

	var calls int32
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("second failed")
	}))

	err := bus.PublishSync(context.Background(), pinged{BaseEvent: NewBaseEvent()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second failed")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPublish_RecoversPanicsAndSurvivesCancel(t *testing.T) {
	bus := NewInMemoryBus(logger.NewWithWriter("test", io.Discard))

	var seenErr atomic.Value
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		panic("boom")
	}))
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, e Event) error {
		seenErr.Store(ctx.Err() == nil)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pinged{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.Equal(t, true, seenErr.Load())
}

func TestPublish_NoSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewWithWriter("test", io.Discard))
	assert.NoError(t, bus.PublishSync(context.Background(), pinged{}))
	bus.Publish(context.Background(), pinged{})
	bus.Wait()
}
