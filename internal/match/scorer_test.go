package match

import (
	"context"
	"testing"

	"huntier/internal/apperr"
	"huntier/internal/model"
)

type staticSource []model.JobPosting

func (s staticSource) Postings() []model.JobPosting {
	out := make([]model.JobPosting, len(s))
	for i, p := range s {
		out[i] = p.Clone()
	}
	return out
}

func testCatalog() staticSource {
	return staticSource{
		{ID: "1", Title: "Frontend Engineer", Skills: []string{"React", "CSS"}, MatchPercentage: 90},
		{ID: "2", Title: "Backend Engineer", Skills: []string{"Go", "PostgreSQL"}, MatchPercentage: 80},
		{ID: "3", Title: "Full Stack Developer", Skills: []string{"React", "TypeScript", "Node.js", "AWS"}, MatchPercentage: 70},
		{ID: "4", Title: "Designer", Skills: []string{"Figma"}, MatchPercentage: 60},
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		user   []string
		job    []string
		expect int
	}{
		{name: "half overlap", user: []string{"React", "TypeScript"}, job: []string{"React", "CSS"}, expect: 50},
		{name: "case insensitive", user: []string{"react"}, job: []string{"React"}, expect: 100},
		{name: "user skill inside job skill", user: []string{"SQL"}, job: []string{"PostgreSQL", "Go"}, expect: 50},
		{name: "job skill inside user skill", user: []string{"React Native"}, job: []string{"React"}, expect: 100},
		{name: "rounds to nearest", user: []string{"Go"}, job: []string{"Go", "A", "B"}, expect: 33},
		{name: "rounds half up", user: []string{"Go", "x", "y", "z", "w", "v", "u", "t"}, job: []string{"Go"}, expect: 13},
		{name: "no overlap", user: []string{"Figma"}, job: []string{"Go"}, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.user, tt.job); got != tt.expect {
				t.Fatalf("expected %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestRankOrdersByScoreAndAnnotates(t *testing.T) {
	t.Parallel()

	s := NewLexicalScorer(testCatalog())
	got, err := s.Rank(context.Background(), Request{Skills: []string{"React", "TypeScript"}, Limit: DefaultLimit})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected whole catalog, got %d", len(got))
	}
	// Full Stack: 2/4=50, Frontend: 1/2=50 (tie keeps catalog order), Backend 0, Designer 0.
	wantIDs := []string{"1", "3", "2", "4"}
	wantScores := []int{50, 50, 0, 0}
	for i := range got {
		if got[i].ID != wantIDs[i] || got[i].MatchPercentage != wantScores[i] {
			t.Fatalf("position %d: expected %s/%d, got %s/%d", i, wantIDs[i], wantScores[i], got[i].ID, got[i].MatchPercentage)
		}
	}
}

func TestRankUsesBaselineWithoutSkills(t *testing.T) {
	t.Parallel()

	s := NewLexicalScorer(testCatalog())
	got, err := s.Rank(context.Background(), Request{Skills: []string{"", "  "}, Limit: 2})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[0].MatchPercentage != 90 || got[1].MatchPercentage != 80 {
		t.Fatalf("expected baseline ordering, got %+v", got)
	}
}

func TestRankLimits(t *testing.T) {
	t.Parallel()

	s := NewLexicalScorer(testCatalog())

	got, err := s.Rank(context.Background(), Request{Skills: []string{"Go"}, Limit: 0})
	if err != nil {
		t.Fatalf("limit 0 should not error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty result for limit 0, got %+v", got)
	}

	_, err = s.Rank(context.Background(), Request{Limit: -1})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for negative limit, got %v", err)
	}

	got, err = s.Rank(context.Background(), Request{Limit: 1})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected single result, got %d", len(got))
	}
}

func TestRankRoleFilter(t *testing.T) {
	t.Parallel()

	s := NewLexicalScorer(testCatalog())

	got, err := s.Rank(context.Background(), Request{DesiredRoles: []string{"ENGINEER"}, Limit: 10})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected engineers only, got %+v", got)
	}

	got, err = s.Rank(context.Background(), Request{DesiredRoles: []string{"Senior Designer (remote)"}, Limit: 10})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "4" {
		t.Fatalf("expected title contained in role to match, got %+v", got)
	}

	got, err = s.Rank(context.Background(), Request{DesiredRoles: []string{"zzz-nonexistent-role"}, Limit: 10})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected fallback to full catalog, got %d", len(got))
	}
}

func TestRankDoesNotMutateSource(t *testing.T) {
	t.Parallel()

	src := testCatalog()
	s := NewLexicalScorer(src)
	if _, err := s.Rank(context.Background(), Request{Skills: []string{"Figma"}, Limit: 5}); err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if src[3].MatchPercentage != 60 {
		t.Fatalf("baseline overwritten in source: %d", src[3].MatchPercentage)
	}
}
