package scoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/scoring"
	"github.com/argus-osint/argus/internal/taxonomy"
)

const testDoc = `
categories:
  - name: recruitment
    weight: 30
    phrases:
      - "zoeken vrijwilligers"
      - "looking for volunteers"
  - name: payment
    weight: 20
    phrases:
      - "betaling"
      - "bitcoin"
  - name: ideology
    weight: 15
    phrases:
      - "vaderland"
locations:
  - name: Schiphol
    aliases:
      - "schiphol airport"
    bonus_weight: 20
  - name: Volkel
    aliases:
      - "vliegbasis volkel"
    bonus_weight: 25
  - name: Rotterdam
    aliases:
      - "rotterdamse haven"
    bonus_weight: 15
`

func testScorer(t *testing.T) *scoring.Scorer {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse taxonomy: %v", err)
	}
	return scoring.NewScorer(tax)
}

func TestScoreFullExample(t *testing.T) {
	s := testScorer(t)
	id := uuid.New()

	result, err := s.Score(id, "Zoeken vrijwilligers bij Schiphol, betaling via Bitcoin, voor het vaderland.")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.PostID != id {
		t.Errorf("PostID = %s, want %s", result.PostID, id)
	}
	// recruitment(30) + payment(20) + ideology(15) + Schiphol(20) = 85
	if result.RawScore != 85 {
		t.Errorf("RawScore = %d, want 85", result.RawScore)
	}
	if result.FinalScore != 85 {
		t.Errorf("FinalScore = %d, want 85", result.FinalScore)
	}
	if result.Tier != scoring.TierCritical {
		t.Errorf("Tier = %s, want CRITICAL", result.Tier)
	}
	if result.MatchedLocation != "Schiphol" {
		t.Errorf("MatchedLocation = %s, want Schiphol", result.MatchedLocation)
	}
	if result.LocationBonus != 20 {
		t.Errorf("LocationBonus = %d, want 20", result.LocationBonus)
	}

	wantCats := []scoring.CategoryMatch{
		{Name: "recruitment", Weight: 30},
		{Name: "payment", Weight: 20},
		{Name: "ideology", Weight: 15},
	}
	if len(result.MatchedCategories) != len(wantCats) {
		t.Fatalf("matched categories: got %d, want %d", len(result.MatchedCategories), len(wantCats))
	}
	for i, want := range wantCats {
		if result.MatchedCategories[i] != want {
			t.Errorf("MatchedCategories[%d] = %+v, want %+v", i, result.MatchedCategories[i], want)
		}
	}
}

func TestScoreCategoryCountsOnce(t *testing.T) {
	s := testScorer(t)

	// Both payment phrases present; the category still contributes 20 once.
	result, err := s.Score(uuid.New(), "betaling graag in bitcoin")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.RawScore != 20 {
		t.Errorf("RawScore = %d, want 20", result.RawScore)
	}
	if len(result.MatchedCategories) != 1 {
		t.Errorf("matched categories: got %d, want 1", len(result.MatchedCategories))
	}
}

func TestScoreLocationBonusNotCumulative(t *testing.T) {
	s := testScorer(t)

	// Three gazetteer hits; only Volkel's 25 applies.
	result, err := s.Score(uuid.New(), "betaling: van schiphol naar vliegbasis volkel via de rotterdamse haven")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.MatchedLocation != "Volkel" {
		t.Errorf("MatchedLocation = %s, want Volkel", result.MatchedLocation)
	}
	if result.LocationBonus != 25 {
		t.Errorf("LocationBonus = %d, want 25", result.LocationBonus)
	}
	if result.RawScore != 45 {
		t.Errorf("RawScore = %d, want 45 (payment 20 + Volkel 25)", result.RawScore)
	}
}

func TestScoreNormalization(t *testing.T) {
	s := testScorer(t)

	tests := []struct {
		name string
		text string
	}{
		{"uppercase", "ZOEKEN VRIJWILLIGERS"},
		{"mixed case", "ZoEkEn VrIjWiLlIgErS"},
		{"extra whitespace", "zoeken    vrijwilligers"},
		{"newlines and tabs", "zoeken\n\tvrijwilligers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Score(uuid.New(), tt.text)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if result.RawScore != 30 {
				t.Errorf("RawScore = %d, want 30", result.RawScore)
			}
		})
	}
}

func TestScoreClampAt100(t *testing.T) {
	doc := `
categories:
  - name: a
    weight: 60
    phrases: ["alpha"]
  - name: b
    weight: 60
    phrases: ["bravo"]
`
	tax, err := taxonomy.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse taxonomy: %v", err)
	}
	s := scoring.NewScorer(tax)

	result, err := s.Score(uuid.New(), "alpha bravo")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.RawScore != 120 {
		t.Errorf("RawScore = %d, want 120", result.RawScore)
	}
	if result.FinalScore != 100 {
		t.Errorf("FinalScore = %d, want 100", result.FinalScore)
	}
	if result.Tier != scoring.TierCritical {
		t.Errorf("Tier = %s, want CRITICAL", result.Tier)
	}
}

func TestScoreNoMatches(t *testing.T) {
	s := testScorer(t)

	result, err := s.Score(uuid.New(), "gewoon een bericht over het weer")
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if result.RawScore != 0 || result.FinalScore != 0 {
		t.Errorf("scores = %d/%d, want 0/0", result.RawScore, result.FinalScore)
	}
	if result.Tier != scoring.TierLow {
		t.Errorf("Tier = %s, want LOW", result.Tier)
	}
	if len(result.MatchedCategories) != 0 {
		t.Errorf("matched categories: got %d, want 0", len(result.MatchedCategories))
	}
	if result.MatchedLocation != "" {
		t.Errorf("MatchedLocation = %s, want empty", result.MatchedLocation)
	}
}

func TestScoreEmptyText(t *testing.T) {
	s := testScorer(t)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"whitespace mix", " \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Score(uuid.New(), tt.text)
			if !errors.Is(err, scoring.ErrEmptyText) {
				t.Errorf("error = %v, want ErrEmptyText", err)
			}
		})
	}
}

func TestScoreIdempotent(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse taxonomy: %v", err)
	}
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := scoring.NewScorerWithClock(tax, func() time.Time { return fixed })

	id := uuid.New()
	text := "zoeken vrijwilligers, betaling in bitcoin bij schiphol"

	a, err := s.Score(id, text)
	if err != nil {
		t.Fatalf("first Score() error = %v", err)
	}
	b, err := s.Score(id, text)
	if err != nil {
		t.Fatalf("second Score() error = %v", err)
	}

	if a.RawScore != b.RawScore || a.FinalScore != b.FinalScore || a.Tier != b.Tier {
		t.Errorf("scores differ: %+v vs %+v", a, b)
	}
	if a.TaxonomyVersion != b.TaxonomyVersion {
		t.Errorf("taxonomy versions differ: %s vs %s", a.TaxonomyVersion, b.TaxonomyVersion)
	}
	if !a.ComputedAt.Equal(fixed) || !b.ComputedAt.Equal(fixed) {
		t.Errorf("ComputedAt = %s / %s, want %s", a.ComputedAt, b.ComputedAt, fixed)
	}
	if len(a.MatchedCategories) != len(b.MatchedCategories) {
		t.Fatalf("matched category counts differ")
	}
	for i := range a.MatchedCategories {
		if a.MatchedCategories[i] != b.MatchedCategories[i] {
			t.Errorf("MatchedCategories[%d] differ: %+v vs %+v", i, a.MatchedCategories[i], b.MatchedCategories[i])
		}
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score int
		want  scoring.Tier
	}{
		{0, scoring.TierLow},
		{19, scoring.TierLow},
		{20, scoring.TierMedium},
		{39, scoring.TierMedium},
		{40, scoring.TierHigh},
		{69, scoring.TierHigh},
		{70, scoring.TierCritical},
		{100, scoring.TierCritical},
	}

	for _, tt := range tests {
		if got := scoring.TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"collapse spaces", "a   b    c", "a b c"},
		{"tabs and newlines", "a\tb\nc", "a b c"},
		{"leading and trailing", "  trimmed  ", "trimmed"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
