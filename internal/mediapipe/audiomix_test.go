package mediapipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDownmixAndVolumeAppliesPanMatrix(t *testing.T) {
	// one 5.1 frame: FL=1000 FR=2000 FC=3000 LFE=0 BL=4000 BR=5000
	in := []int16{1000, 2000, 3000, 0, 4000, 5000}
	out := DownmixAndVolume(in, 6, true, 1.0)

	require.Len(t, out, 2)
	wantLeft := clampS16(3000 + 0.30*1000 + 0.30*4000)
	wantRight := clampS16(3000 + 0.30*2000 + 0.30*5000)
	require.Equal(t, wantLeft, out[0])
	require.Equal(t, wantRight, out[1])
}

func TestDownmixAndVolumeWithoutDownmixOnlyScales(t *testing.T) {
	in := []int16{1000, -1000}
	out := DownmixAndVolume(in, 2, true, 0.5)
	require.Equal(t, []int16{500, -500}, out)
}

func TestDownmixAndVolumeClampsOverflow(t *testing.T) {
	in := []int16{30000, -30000}
	out := DownmixAndVolume(in, 2, false, 2.0)
	require.Equal(t, int16(32767), out[0])
	require.Equal(t, int16(-32768), out[1])
}

func TestChoosePadPolicy(t *testing.T) {
	require.Equal(t, PadNone, ChoosePadPolicy(4.0/3.0, true, false))
	require.Equal(t, PadLetterbox, ChoosePadPolicy(16.0/9.0, true, false))
	require.Equal(t, PadPillarbox, ChoosePadPolicy(16.0/9.0, false, true))
	require.Equal(t, PadFit, ChoosePadPolicy(16.0/9.0, false, false))
}
