// Package cricket holds shared cricket arithmetic helpers.
//
// Overs are displayed as "O.B" where O is completed overs and B is balls into
// the current over (0-5). The string looks like a decimal but is positional:
// "3.4" means 3 overs and 4 balls (22 balls), not 3.4 overs. All aggregation
// in this codebase works on integer ball counts and only formats to "O.B" at
// the response boundary.
package cricket

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const BallsPerOver = 6

// BallsFromOvers parses an "O.B" overs display string into a total ball count.
// An empty string parses to 0 balls. "16" (no ball component) means 16.0.
func BallsFromOvers(display string) (int, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return 0, nil
	}

	parts := strings.SplitN(display, ".", 2)
	overs, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid overs display %q: %w", display, err)
	}
	if overs < 0 {
		return 0, fmt.Errorf("invalid overs display %q: negative overs", display)
	}

	balls := 0
	if len(parts) == 2 && parts[1] != "" {
		balls, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid overs display %q: %w", display, err)
		}
		if balls < 0 || balls >= BallsPerOver {
			return 0, fmt.Errorf("invalid overs display %q: ball component must be 0-5", display)
		}
	}

	return overs*BallsPerOver + balls, nil
}

// BallsFromOversFloat converts a float overs value (e.g. 3.4 meaning 3 overs
// and 4 balls) into a total ball count. Scorecard entries carry bowling overs
// as this pseudo-decimal, so the fractional digit is read positionally.
func BallsFromOversFloat(overs float64) int {
	if overs <= 0 {
		return 0
	}
	whole := int(overs)
	balls := int(math.Round((overs - float64(whole)) * 10))
	if balls >= BallsPerOver {
		// Tolerate sloppy inputs like 3.7 by carrying into the next over.
		whole += balls / BallsPerOver
		balls = balls % BallsPerOver
	}
	return whole*BallsPerOver + balls
}

// OversFromBalls formats a total ball count as an "O.B" display string.
func OversFromBalls(balls int) string {
	if balls <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%d.%d", balls/BallsPerOver, balls%BallsPerOver)
}

// OversFloatFromBalls renders a ball count as the pseudo-decimal overs value
// used in bowling figures (22 balls -> 3.4).
func OversFloatFromBalls(balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return float64(balls/BallsPerOver) + float64(balls%BallsPerOver)/10
}

// TrueOvers converts a ball count into real (decimal) overs for rate maths:
// economy and net run rate divide by this, never by the display value.
func TrueOvers(balls int) float64 {
	return float64(balls) / BallsPerOver
}
