package cricket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatelKrish-16/crease/pkg/cricket"
)

func TestBallsFromOvers(t *testing.T) {
	tests := []struct {
		display string
		want    int
	}{
		{"0.0", 0},
		{"", 0},
		{"1.0", 6},
		{"3.4", 22},
		{"15.3", 93},
		{"16", 96},
		{"20.5", 125},
		{" 4.2 ", 26},
	}

	for _, tt := range tests {
		got, err := cricket.BallsFromOvers(tt.display)
		require.NoError(t, err, "display %q", tt.display)
		assert.Equal(t, tt.want, got, "display %q", tt.display)
	}
}

func TestBallsFromOvers_Invalid(t *testing.T) {
	for _, display := range []string{"abc", "3.6", "3.9", "-1.2", "3.x"} {
		_, err := cricket.BallsFromOvers(display)
		assert.Error(t, err, "display %q", display)
	}
}

func TestBallsFromOversFloat(t *testing.T) {
	// 3.4 is 3 overs and 4 balls, not 3.4 true overs.
	assert.Equal(t, 22, cricket.BallsFromOversFloat(3.4))
	assert.Equal(t, 6, cricket.BallsFromOversFloat(1.0))
	assert.Equal(t, 0, cricket.BallsFromOversFloat(0))
	assert.Equal(t, 29, cricket.BallsFromOversFloat(4.5))
	// 0.3 -> 3 balls
	assert.Equal(t, 3, cricket.BallsFromOversFloat(0.3))
}

func TestOversFromBalls(t *testing.T) {
	assert.Equal(t, "0.0", cricket.OversFromBalls(0))
	assert.Equal(t, "1.0", cricket.OversFromBalls(6))
	assert.Equal(t, "3.4", cricket.OversFromBalls(22))
	assert.Equal(t, "15.3", cricket.OversFromBalls(93))
}

func TestRoundTrip(t *testing.T) {
	for balls := 0; balls < 200; balls++ {
		got, err := cricket.BallsFromOvers(cricket.OversFromBalls(balls))
		require.NoError(t, err)
		if balls == 0 {
			assert.Equal(t, 0, got)
			continue
		}
		assert.Equal(t, balls, got)
	}
}

func TestTrueOvers(t *testing.T) {
	// "3.3" is 3.5 true overs: the naive parseFloat reading would give 3.3
	// and silently skew economy and NRR.
	balls, err := cricket.BallsFromOvers("3.3")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, cricket.TrueOvers(balls), 1e-9)
}

func TestOversFloatFromBalls(t *testing.T) {
	assert.InDelta(t, 3.4, cricket.OversFloatFromBalls(22), 1e-9)
	assert.InDelta(t, 0.0, cricket.OversFloatFromBalls(0), 1e-9)
	assert.InDelta(t, 4.0, cricket.OversFloatFromBalls(24), 1e-9)
}
