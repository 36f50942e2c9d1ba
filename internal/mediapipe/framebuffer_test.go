package mediapipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFrameDoubleBufferFlipSwapsWithoutRepeat(t *testing.T) {
	d := NewFrameDoubleBuffer(0, 0)

	back, ok := d.BackBuffer()
	require.True(t, ok)
	require.Equal(t, 0, back)

	d.slots[1] = 42
	d.MarkReady(false)

	front, ok := d.Flip()
	require.True(t, ok)
	require.Equal(t, 42, front)
}

func TestFrameDoubleBufferRepeatRedeliversFrontBuffer(t *testing.T) {
	d := NewFrameDoubleBuffer(7, 0)

	d.slots[1] = 99
	d.MarkReady(true)

	front, ok := d.Flip()
	require.True(t, ok)
	require.Equal(t, 7, front, "repeat must redeliver the existing front buffer, not the new back buffer")
}

func TestFrameDoubleBufferAbortUnblocksFlip(t *testing.T) {
	d := NewFrameDoubleBuffer(0, 0)

	done := make(chan bool, 1)
	go func() {
		_, ok := d.Flip()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	d.Abort()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Flip did not unblock within 1s of Abort")
	}
}

func TestFrameDoubleBufferAbortUnblocksBackBuffer(t *testing.T) {
	d := NewFrameDoubleBuffer(0, 0)
	d.MarkReady(false) // saturate so the next BackBuffer call blocks

	done := make(chan bool, 1)
	go func() {
		_, ok := d.BackBuffer()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	d.Abort()

	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("BackBuffer did not unblock within 1s of Abort")
	}
}
