package rhythm

import "math"

// DefaultToleranceMs is how far a tap may land from an expected beat and still count.
const DefaultToleranceMs = 100.0

// Match is the outcome of aligning user taps against an expected pattern.
type Match struct {
	Matched       int
	TotalExpected int
	Accuracy      float64 // percent, 0 when nothing was expected
}

// Score aligns taps against expected greedily: each expected offset, in order,
// consumes the first unconsumed tap within toleranceMs. An early beat can take a
// tap that would have fit a later beat better; band thresholds assume this.
func Score(expected, taps []float64, toleranceMs float64) Match {
	consumed := make(map[int]struct{}, len(taps))
	matched := 0

	for _, want := range expected {
		for i, tap := range taps {
			if _, ok := consumed[i]; ok {
				continue
			}
			if math.Abs(tap-want) <= toleranceMs {
				consumed[i] = struct{}{}
				matched++
				break
			}
		}
	}

	m := Match{Matched: matched, TotalExpected: len(expected)}
	if m.TotalExpected > 0 {
		m.Accuracy = 100 * float64(matched) / float64(m.TotalExpected)
	}
	return m
}

// Band maps an accuracy range to points and feedback. Lower bounds are inclusive.
type Band struct {
	MinAccuracy float64
	Points      int
	Feedback    string
	Correct     bool
}

// Bands are ordered from best to worst.
var Bands = []Band{
	{MinAccuracy: 90, Points: 100, Feedback: "Excellent! Your timing is spot on!", Correct: true},
	{MinAccuracy: 75, Points: 75, Feedback: "Great job! Just a little off the beat."},
	{MinAccuracy: 60, Points: 50, Feedback: "Good effort! Keep practicing your timing."},
	{MinAccuracy: 40, Points: 25, Feedback: "Getting there. Focus on the pulse."},
	{MinAccuracy: math.Inf(-1), Points: 0, Feedback: "Keep trying! Listen carefully to the rhythm."},
}

// BandFor returns the scoring band for accuracy.
func BandFor(accuracy float64) Band {
	for _, b := range Bands {
		if accuracy >= b.MinAccuracy {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// PatternFromBeats converts beat positions within a bar into millisecond offsets,
// repeated for the given number of bars. Positions outside the bar are dropped.
func PatternFromBeats(beats []float64, tempo float64, beatsPerBar, bars int) []float64 {
	if tempo <= 0 || beatsPerBar <= 0 || bars <= 0 {
		return nil
	}
	msPerBeat := 60000 / tempo
	msPerBar := msPerBeat * float64(beatsPerBar)

	offsets := make([]float64, 0, len(beats)*bars)
	for bar := 0; bar < bars; bar++ {
		start := float64(bar) * msPerBar
		for _, beat := range beats {
			if beat < 0 || beat >= float64(beatsPerBar) {
				continue
			}
			offsets = append(offsets, math.Floor(start+beat*msPerBeat))
		}
	}
	return offsets
}
