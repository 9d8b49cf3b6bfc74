package echokeys

import (
	"math"

	"github.com/google/uuid"
)

type (
	// ScoreRecord compares one melody position with what the player played.
	// Position is 1-based. Played is NoteMissed if the player never reached
	// this position.
	ScoreRecord struct {
		Position int  `json:"position" yaml:"position"`
		Expected Note `json:"expected" yaml:"expected"`
		Played   Note `json:"played" yaml:"played"`
		Correct  bool `json:"correct" yaml:"correct"`
	}

	// Result is the outcome of one round: exactly one record per melody
	// position, the number of correct positions and the melody length.
	Result struct {
		Round   uuid.UUID     `json:"round" yaml:"round"`
		Records []ScoreRecord `json:"records" yaml:"records"`
		Correct int           `json:"correct" yaml:"correct"`
		Total   int           `json:"total" yaml:"total"`
	}
)

// Score compares the melody with the played notes. It never mutates its
// arguments; positions beyond len(played) are reported as missed and extra
// played notes are ignored.
func Score(melody Melody, played []Note) Result {
	ret := Result{Records: make([]ScoreRecord, len(melody)), Total: len(melody)}
	for i, expected := range melody {
		p := NoteMissed
		if i < len(played) {
			p = played[i]
		}
		correct := p == expected
		if correct {
			ret.Correct++
		}
		ret.Records[i] = ScoreRecord{Position: i + 1, Expected: expected, Played: p, Correct: correct}
	}
	return ret
}

// Percent returns the share of correct positions, rounded half up to an
// integer percentage.
func (r Result) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Floor(float64(r.Correct)*100/float64(r.Total) + 0.5))
}

// Perfect reports whether every position was played correctly.
func (r Result) Perfect() bool {
	return r.Total > 0 && r.Correct == r.Total
}

// Copy makes a deep copy of the Result.
func (r Result) Copy() Result {
	records := make([]ScoreRecord, len(r.Records))
	copy(records, r.Records)
	r.Records = records
	return r
}
