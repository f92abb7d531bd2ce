// Package risk scores borrowers and investors. Borrowers get a Tier from
// their credit score and debt-to-income ratio; investors get a Profile from
// a weighted questionnaire.
package risk

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is the risk class recorded on a loan at creation.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// LoanRisk classifies a request by credit score and requested/monthly income.
// Thresholds are inclusive.
func LoanRisk(creditScore int, monthlyIncome, requested float64) Tier {
	if monthlyIncome <= 0 {
		return TierHigh
	}
	ratio := requested / monthlyIncome
	switch {
	case creditScore >= 700 && ratio <= 5:
		return TierLow
	case creditScore >= 600 && ratio <= 8:
		return TierMedium
	default:
		return TierHigh
	}
}

// Profile is the investor appetite derived from the questionnaire.
type Profile string

const (
	ProfileConservative Profile = "conservative"
	ProfileModerate     Profile = "moderate"
	ProfileAggressive   Profile = "aggressive"
)

// MaxScore is the top of the investor score range.
const MaxScore = 4.0

// ScoringTable maps quiz answers to weights and partitions the 0..4 score range.
// A score below ConservativeBelow is conservative, below ModerateBelow is
// moderate, anything else aggressive.
type ScoringTable struct {
	Weights           map[string]float64 `yaml:"weights"`
	MaxWeight         float64            `yaml:"max_weight"`
	ConservativeBelow float64            `yaml:"conservative_below"`
	ModerateBelow     float64            `yaml:"moderate_below"`
}

// DefaultScoringTable is a four-option quiz (a..d) weighted 1..4.
func DefaultScoringTable() ScoringTable {
	return ScoringTable{
		Weights:           map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4},
		MaxWeight:         4,
		ConservativeBelow: 1.5,
		ModerateBelow:     2.75,
	}
}

// Validate checks that every weight lies in [0, MaxWeight] and that the cut
// points increase strictly inside (0, MaxScore].
func (t ScoringTable) Validate() error {
	if len(t.Weights) == 0 {
		return errors.New("risk: scoring table has no weights")
	}
	if t.MaxWeight <= 0 {
		return errors.New("risk: max_weight must be positive")
	}
	for k, w := range t.Weights {
		if w < 0 || w > t.MaxWeight {
			return fmt.Errorf("risk: weight for %q outside [0, %v]", k, t.MaxWeight)
		}
	}
	if t.ConservativeBelow <= 0 || t.ConservativeBelow >= t.ModerateBelow || t.ModerateBelow > MaxScore {
		return fmt.Errorf("risk: cut points must satisfy 0 < %v < %v <= %v", t.ConservativeBelow, t.ModerateBelow, MaxScore)
	}
	return nil
}

var ErrNoAnswers = errors.New("risk: no quiz answers")

// UnknownAnswerError names the first answer missing from the table. Index is
// zero-based.
type UnknownAnswerError struct {
	Index  int
	Answer string
}

func (e *UnknownAnswerError) Error() string {
	return fmt.Sprintf("risk: answer %d (%q) is not in the scoring table", e.Index+1, e.Answer)
}

type InvestorRisk struct {
	Score   float64 `json:"score"`
	Profile Profile `json:"profile"`
}

// InvestorProfile averages the answer weights, scales the mean onto 0..4 and
// buckets it with the table's cut points.
func InvestorProfile(answers []string, table ScoringTable) (InvestorRisk, error) {
	if len(answers) == 0 {
		return InvestorRisk{}, ErrNoAnswers
	}
	if err := table.Validate(); err != nil {
		return InvestorRisk{}, err
	}
	var total float64
	for i, a := range answers {
		w, ok := table.Weights[strings.ToLower(strings.TrimSpace(a))]
		if !ok {
			return InvestorRisk{}, &UnknownAnswerError{Index: i, Answer: a}
		}
		total += w
	}
	score := total / float64(len(answers)) / table.MaxWeight * MaxScore
	return InvestorRisk{Score: score, Profile: table.Tier(score)}, nil
}

// Tier buckets a 0..MaxScore score into a Profile. Cut points are exclusive
// upper bounds.
func (t ScoringTable) Tier(score float64) Profile {
	switch {
	case score < t.ConservativeBelow:
		return ProfileConservative
	case score < t.ModerateBelow:
		return ProfileModerate
	default:
		return ProfileAggressive
	}
}
