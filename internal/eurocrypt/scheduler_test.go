package eurocrypt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedulerSwitchRegeneratesInactiveParity(t *testing.T) {
	ctx := NewContext(PresetTV1000)
	sched := NewScheduler(ctx, ParityOdd)

	oddCW := ctx.DecodedOddCW()
	evenCW := ctx.DecodedEvenCW()

	sched.Switch()
	require.Equal(t, ParityEven, sched.Active())
	// The odd parity just became inactive, so it is regenerated; the
	// even parity, now active, keeps publishing its existing CW.
	require.NotEqual(t, oddCW, ctx.DecodedOddCW())
	require.Equal(t, evenCW, ctx.DecodedEvenCW())
}

func TestSchedulerSwitchAlternates(t *testing.T) {
	ctx := NewContext(PresetCTV)
	sched := NewScheduler(ctx, ParityOdd)

	sched.Switch()
	require.Equal(t, ParityEven, sched.Active())
	sched.Switch()
	require.Equal(t, ParityOdd, sched.Active())
}
