package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOversNotation(t *testing.T) {
	tests := []struct {
		balls int
		want  string
	}{
		{0, "0.0"},
		{5, "0.5"},
		{6, "1.0"},
		{13, "2.1"},
		{120, "20.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OversNotation(tt.balls), "balls=%d", tt.balls)
	}
	assert.Equal(t, "3.4", FormatOverCount(3, 4))
}

func TestRates(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"run rate no balls", RunRate(10, 0), 0},
		{"run rate 50 off 30", RunRate(50, 30), 10.00},
		{"run rate 7 off 4", RunRate(7, 4), 10.50},
		{"run rate 10 off 7", RunRate(10, 7), 8.57},
		{"strike rate no balls", StrikeRate(5, 0), 0},
		{"strike rate 50 off 30", StrikeRate(50, 30), 166.67},
		{"strike rate 1 off 3", StrikeRate(1, 3), 33.33},
		{"strike rate half up", StrikeRate(1, 8), 12.50},
		{"economy 6 off 6", Economy(6, 6), 6.00},
		{"economy 13 off 8", Economy(13, 8), 9.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-9)
		})
	}
}

func TestRoundRatio_HalfAwayFromZero(t *testing.T) {
	// ties: 12.5 hundredths -> 0.13, -12.5 -> -0.13, 100.5 -> 1.01
	assert.InDelta(t, 0.13, roundRatio(125, 10), 1e-9)
	assert.InDelta(t, -0.13, roundRatio(-125, 10), 1e-9)
	assert.InDelta(t, 1.01, roundRatio(1005, 10), 1e-9)
}

func TestProjectedScoreAndFormat(t *testing.T) {
	assert.Equal(t, 200, ProjectedScore(50, 30, 20))
	assert.Equal(t, 0, ProjectedScore(0, 0, 20))
	// 7 off 44 over 33 overs is exactly 31.5; the 2dp run rate would give 31
	assert.Equal(t, 32, ProjectedScore(7, 44, 33))
	assert.Equal(t, "10.00", FormatRate(RunRate(50, 30)))
	assert.Equal(t, "0.00", FormatRate(0))
}
