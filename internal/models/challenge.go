package models

import "time"

// Challenge kinds.
const (
	KindNote   = "note"
	KindEQ     = "eq"
	KindRhythm = "rhythm"
)

// Difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Challenge is a read-only ear-training task. Note and EQ challenges are judged
// against CorrectAnswer (underscore-delimited alternatives), rhythm challenges
// against CorrectPattern (expected tap offsets in milliseconds).
type Challenge struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Kind           string    `json:"kind"`
	Prompt         string    `json:"prompt"`
	CorrectAnswer  string    `json:"-"`
	CorrectPattern []float64 `json:"-"`
	Difficulty     string    `json:"difficulty,omitempty"`
	FrequencyBand  string    `json:"frequency_band,omitempty"`
	ChangeAmount   int       `json:"-"`
	SourceAudio    string    `json:"source_audio,omitempty"`
	Tempo          float64   `json:"tempo,omitempty"`
	AudioFile      string    `json:"audio_file,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChallengeFilter struct {
	Kind       string
	Difficulty string
	Limit      int
	Offset     int
}

// FrequencyBand is one selectable answer in the EQ game.
type FrequencyBand struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	LowHz  int    `json:"low_hz"`
	HighHz int    `json:"high_hz"`
}
