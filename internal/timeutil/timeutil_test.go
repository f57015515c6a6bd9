package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseElapsed(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"00:00:00", 0},
		{"01:02:03", 3723},
		{"100:00:00", 360000},
		{"00:99:00", 5940},
		{" 00:01:00 ", 60},
		{"", 0},
		{"1:2", 0},
		{"1:2:3:4", 0},
		{"a:b:c", 0},
		{"-1:00:00", 0},
		{"01::03", 0},
		{"1.5:00:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseElapsed(tt.input))
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(0))
	assert.Equal(t, "00:00:59", FormatElapsed(59))
	assert.Equal(t, "01:01:01", FormatElapsed(3661))
	assert.Equal(t, "99:59:59", FormatElapsed(359999))
	assert.Equal(t, "100:00:00", FormatElapsed(360000))
	assert.Equal(t, "00:00:00", FormatElapsed(-5))
}

func TestElapsedRoundTrip(t *testing.T) {
	for n := 0; n <= 359999; n++ {
		if got := ParseElapsed(FormatElapsed(n)); got != n {
			t.Fatalf("round trip of %d gave %d", n, got)
		}
	}
}

func TestEstimateMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2h 15m", 135},
		{"1.5 hours", 90},
		{"45 min", 45},
		{"30 minutes", 30},
		{"2 hrs", 120},
		{"3H", 180},
		{"5 hours 20 minutes", 320},
		{"0.5m", 0.5},
		{"1h 2h", 60},
		{"", 0},
		{"soon", 0},
		{"45", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateMinutes(tt.input), 1e-9)
		})
	}
}

func TestSumEstimates(t *testing.T) {
	assert.Equal(t, "2h 15m", SumEstimates("2h 15m"))
	assert.Equal(t, "0m", SumEstimates())
	assert.Equal(t, "0m", SumEstimates("", "later"))
	assert.Equal(t, "1h 30m", SumEstimates("1h", "30 min", "abc"))
	assert.Equal(t, "2h", SumEstimates("1.5h", "30m"))
	assert.Equal(t, "45m", SumEstimates("45 minutes"))
	// rounding happens once on the total
	assert.Equal(t, "1m", SumEstimates("0.4m", "0.4m"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "59m", FormatMinutes(59))
	assert.Equal(t, "1h", FormatMinutes(60))
	assert.Equal(t, "1h 1m", FormatMinutes(61))
	assert.Equal(t, "10h 5m", FormatMinutes(605))
	assert.Equal(t, "0m", FormatMinutes(-3))
}
