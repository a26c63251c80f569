package scoring

import "fmt"

// OversNotation renders a legal-ball count as "<overs>.<balls>".
func OversNotation(balls int) string {
	return FormatOverCount(balls/6, balls%6)
}

// FormatOverCount renders completed overs plus balls into the current over.
func FormatOverCount(overs, balls int) string {
	return fmt.Sprintf("%d.%d", overs, balls)
}

// RunRate is runs per six legal balls, rounded to 2 decimals. Zero balls yield 0.
func RunRate(runs, totalBalls int) float64 {
	if totalBalls <= 0 {
		return 0
	}
	return roundRatio(runs*600, totalBalls)
}

// StrikeRate is runs per hundred balls faced, rounded to 2 decimals.
func StrikeRate(runs, balls int) float64 {
	if balls <= 0 {
		return 0
	}
	return roundRatio(runs*10000, balls)
}

// Economy is runs conceded per six legal balls, rounded to 2 decimals.
func Economy(runsConceded, totalBalls int) float64 {
	return RunRate(runsConceded, totalBalls)
}

// ProjectedScore extrapolates the scoring pace over the full allocation,
// rounded half away from zero to whole runs.
func ProjectedScore(runs, totalBalls, maxOvers int) int {
	if totalBalls <= 0 {
		return 0
	}
	return roundDiv(runs*maxOvers*6, totalBalls)
}

// FormatRate renders a rate with exactly two decimals.
func FormatRate(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// roundRatio returns num/den/100 rounded half away from zero at the hundredths.
// Working on integers keeps 1.005-style ties exact.
func roundRatio(num, den int) float64 {
	return float64(roundDiv(num, den)) / 100
}

// roundDiv is num/den rounded half away from zero; den must be positive.
func roundDiv(num, den int) int {
	if num < 0 {
		return -roundDiv(-num, den)
	}
	return (2*num + den) / (2 * den)
}
