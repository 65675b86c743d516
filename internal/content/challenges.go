package content

import (
	"fmt"
	"strings"

	"github.com/vytor/eartune/internal/answer"
	"github.com/vytor/eartune/internal/models"
	"github.com/vytor/eartune/internal/rhythm"
)

// RhythmBars is how many bars each rhythm pattern is played for.
const RhythmBars = 4

var bands = []models.FrequencyBand{
	{Slug: "sub-bass", Name: "Sub Bass", LowHz: 20, HighHz: 60},
	{Slug: "bass", Name: "Bass", LowHz: 60, HighHz: 250},
	{Slug: "low-mids", Name: "Low Mids", LowHz: 250, HighHz: 500},
	{Slug: "mids", Name: "Mids", LowHz: 500, HighHz: 2000},
	{Slug: "high-mids", Name: "High Mids", LowHz: 2000, HighHz: 4000},
	{Slug: "presence", Name: "Presence", LowHz: 4000, HighHz: 6000},
	{Slug: "brilliance", Name: "Brilliance", LowHz: 6000, HighHz: 20000},
}

var (
	eqSources       = []string{"pink_noise", "drums", "bass", "synth_pad"}
	eqChangeAmounts = []int{-12, -9, -6, -3, 3, 6, 9, 12}
)

// FrequencyBands returns the EQ answer choices, lowest first.
func FrequencyBands() []models.FrequencyBand {
	out := make([]models.FrequencyBand, len(bands))
	copy(out, bands)
	return out
}

// BandAnswer returns the accepted answers for a band: its slug and its
// lowercased display name. Slugs are hyphenated because underscores separate
// alternatives.
func BandAnswer(b models.FrequencyBand) string {
	name := strings.ToLower(b.Name)
	if name == b.Slug {
		return b.Slug
	}
	return b.Slug + answer.Separator + name
}

// EQDifficulty maps a gain change to a difficulty; smaller changes are harder to hear.
func EQDifficulty(change int) string {
	abs := change
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 9:
		return models.DifficultyBeginner
	case abs >= 6:
		return models.DifficultyIntermediate
	default:
		return models.DifficultyAdvanced
	}
}

// EQChallenges returns one challenge per source, band and change amount.
func EQChallenges() []models.Challenge {
	challenges := make([]models.Challenge, 0, len(eqSources)*len(bands)*len(eqChangeAmounts))
	for _, source := range eqSources {
		for _, b := range bands {
			for _, change := range eqChangeAmounts {
				verb := "boosted"
				if change < 0 {
					verb = "cut"
				}
				challenges = append(challenges, models.Challenge{
					Slug:          fmt.Sprintf("eq-%s-%s-%s", strings.ReplaceAll(source, "_", "-"), b.Slug, changeSlug(change)),
					Kind:          models.KindEQ,
					Prompt:        fmt.Sprintf("Which frequency band was %s, and by how much?", verb),
					CorrectAnswer: BandAnswer(b),
					Difficulty:    EQDifficulty(change),
					FrequencyBand: b.Slug,
					ChangeAmount:  change,
					SourceAudio:   source,
					AudioFile:     fmt.Sprintf("audio/eq_samples/%s_%s_%ddb.wav", source, strings.ReplaceAll(b.Slug, "-", "_"), change),
				})
			}
		}
	}
	return challenges
}

func changeSlug(change int) string {
	if change < 0 {
		return fmt.Sprintf("cut%d", -change)
	}
	return fmt.Sprintf("boost%d", change)
}

type note struct {
	slug    string
	answers []string
	sharp   bool
}

var notes = []note{
	{"c", []string{"c", "do"}, false},
	{"c-sharp", []string{"c#", "db", "c sharp", "d flat"}, true},
	{"d", []string{"d", "re"}, false},
	{"d-sharp", []string{"d#", "eb", "d sharp", "e flat"}, true},
	{"e", []string{"e", "mi"}, false},
	{"f", []string{"f", "fa"}, false},
	{"f-sharp", []string{"f#", "gb", "f sharp", "g flat"}, true},
	{"g", []string{"g", "sol", "so"}, false},
	{"g-sharp", []string{"g#", "ab", "g sharp", "a flat"}, true},
	{"a", []string{"a", "la"}, false},
	{"a-sharp", []string{"a#", "bb", "a sharp", "b flat"}, true},
	{"b", []string{"b", "si", "ti"}, false},
}

// NoteChallenges returns one pitch-naming challenge per chromatic note.
func NoteChallenges() []models.Challenge {
	challenges := make([]models.Challenge, 0, len(notes))
	for _, n := range notes {
		difficulty := models.DifficultyBeginner
		if n.sharp {
			difficulty = models.DifficultyIntermediate
		}
		challenges = append(challenges, models.Challenge{
			Slug:          "note-" + n.slug,
			Kind:          models.KindNote,
			Prompt:        "Identify this note.",
			CorrectAnswer: strings.Join(n.answers, answer.Separator),
			Difficulty:    difficulty,
			AudioFile:     fmt.Sprintf("audio/notes/%s.mp3", strings.ReplaceAll(n.slug, "-", "_")),
		})
	}
	return challenges
}

type rhythmPattern struct {
	name        string
	description string
	difficulty  string
	beats       []float64
	tempo       float64
	beatsPerBar int
}

func sixteenths() []float64 {
	beats := make([]float64, 16)
	for i := range beats {
		beats[i] = float64(i) * 0.25
	}
	return beats
}

var rhythmPatterns = []rhythmPattern{
	{"quarter_notes", "Quarter notes", models.DifficultyBeginner, []float64{0, 1, 2, 3}, 80, 4},
	{"half_notes", "Half notes", models.DifficultyBeginner, []float64{0, 2}, 80, 4},
	{"whole_note", "Whole note", models.DifficultyBeginner, []float64{0}, 80, 4},
	{"dotted_half", "Dotted half notes", models.DifficultyBeginner, []float64{0, 3}, 90, 4},

	{"eighth_notes", "Eighth notes", models.DifficultyIntermediate, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5}, 100, 4},
	{"quarter_eighth", "Mixed quarter and eighth notes", models.DifficultyIntermediate, []float64{0, 1, 1.5, 2, 3}, 100, 4},
	{"simple_syncopation", "Simple syncopation", models.DifficultyIntermediate, []float64{0, 0.5, 1.5, 2, 2.5, 3.5}, 110, 4},
	{"dotted_quarter", "Dotted quarter notes", models.DifficultyIntermediate, []float64{0, 1.5, 3}, 95, 4},

	{"sixteenth_notes", "Sixteenth notes", models.DifficultyAdvanced, sixteenths(), 90, 4},
	{"complex_syncopation", "Complex syncopation with sixteenth notes", models.DifficultyAdvanced, []float64{0, 0.5, 1.25, 2, 2.75, 3.5}, 120, 4},
	{"triplet_feel", "Triplet feel", models.DifficultyAdvanced, []float64{0, 0.667, 1.333, 2, 2.667, 3.333}, 110, 4},
	{"odd_meter", "5/4 time signature", models.DifficultyAdvanced, []float64{0, 1, 2, 3, 4}, 100, 5},
}

// RhythmChallenges returns the tap-along challenges with their expected tap
// offsets already expanded over RhythmBars bars.
func RhythmChallenges() []models.Challenge {
	challenges := make([]models.Challenge, 0, len(rhythmPatterns))
	for _, p := range rhythmPatterns {
		challenges = append(challenges, models.Challenge{
			Slug:           fmt.Sprintf("rhythm-%s-%s", p.difficulty, strings.ReplaceAll(p.name, "_", "-")),
			Kind:           models.KindRhythm,
			Prompt:         fmt.Sprintf("Tap along: %s at %.0f BPM", strings.ToLower(p.description), p.tempo),
			CorrectPattern: rhythm.PatternFromBeats(p.beats, p.tempo, p.beatsPerBar, RhythmBars),
			Difficulty:     p.difficulty,
			Tempo:          p.tempo,
			AudioFile:      fmt.Sprintf("audio/rhythm/%s_%s.mp3", p.difficulty, p.name),
		})
	}
	return challenges
}

// Challenges returns every built-in challenge.
func Challenges() []models.Challenge {
	var all []models.Challenge
	all = append(all, NoteChallenges()...)
	all = append(all, EQChallenges()...)
	all = append(all, RhythmChallenges()...)
	return all
}
