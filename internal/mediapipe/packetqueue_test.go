package mediapipe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePacket struct {
	id   int
	size int
}

func (f fakePacket) Size() int { return f.size }

func TestPacketQueueFIFOOrder(t *testing.T) {
	q := NewPacketQueue[fakePacket]()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(fakePacket{id: i, size: 100}))
	}
	require.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		p, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, i, p.id, "packets must pop in FIFO order, preserving stream ordering")
	}
}

func TestPacketQueueEOFAfterDrain(t *testing.T) {
	q := NewPacketQueue[fakePacket]()
	require.NoError(t, q.Push(fakePacket{id: 1, size: 10}))
	q.PushEOF()

	_, err := q.Pop()
	require.NoError(t, err, "queued packets must still be delivered before EOF is observed")

	_, err = q.Pop()
	require.ErrorIs(t, err, ErrEOF)
}

func TestPacketQueueByteBoundedBackpressure(t *testing.T) {
	q := NewPacketQueue[fakePacket]()
	// Payload plus per-entry overhead fills the byte budget exactly.
	big := fakePacket{id: 0, size: MaxQueueSize - approxPacketOverhead}
	require.NoError(t, q.Push(big))

	pushed := make(chan error, 1)
	go func() {
		pushed <- q.Push(fakePacket{id: 1, size: 1})
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-pushed:
		t.Fatal("Push should have blocked while the queue is at capacity")
	default:
	}

	_, err := q.Pop()
	require.NoError(t, err)

	select {
	case err := <-pushed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock within 1s of a Pop freeing capacity")
	}
}

// S6: a concurrent abort unblocks a pending Push/Pop within bounded
// time and reports "aborted" rather than delivering a packet.
func TestPacketQueueAbortUnblocksWaitersWithinOneSecond(t *testing.T) {
	q := NewPacketQueue[fakePacket]()

	var wg sync.WaitGroup
	results := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := q.Pop()
		results <- err
	}()
	go func() {
		defer wg.Done()
		require.NoError(t, q.Push(fakePacket{size: MaxQueueSize - approxPacketOverhead}))
		err := q.Push(fakePacket{size: MaxQueueSize})
		results <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Abort()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queue did not unblock both waiters within 1s of Abort")
	}

	close(results)
	for err := range results {
		if err != nil {
			require.ErrorIs(t, err, ErrAborted)
		}
	}
}

func TestPacketQueueSizeAccounting(t *testing.T) {
	q := NewPacketQueue[fakePacket]()
	require.NoError(t, q.Push(fakePacket{size: 100}))
	require.NoError(t, q.Push(fakePacket{size: 200}))
	require.Equal(t, 300+2*approxPacketOverhead, q.Size())

	_, err := q.Pop()
	require.NoError(t, err)
	require.Equal(t, 200+approxPacketOverhead, q.Size())
}
