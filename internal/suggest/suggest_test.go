package suggest

import (
	"context"
	"reflect"
	"testing"

	"huntier/internal/apperr"
	"huntier/internal/model"
)

type staticSource []model.JobPosting

func (s staticSource) Postings() []model.JobPosting { return append([]model.JobPosting(nil), s...) }

func testSource() staticSource {
	return staticSource{
		{ID: "1", Title: "Frontend Engineer", Skills: []string{"React", "CSS", "TypeScript"}},
		{ID: "2", Title: "Backend Engineer", Skills: []string{"Go", "PostgreSQL", "Docker"}},
		{ID: "3", Title: "Full Stack Developer", Skills: []string{"React", "Node.js", "Docker"}},
		{ID: "4", Title: "DevOps Engineer", Skills: []string{"Docker", "Kubernetes"}},
	}
}

func TestSuggestSkillsForDesiredRole(t *testing.T) {
	t.Parallel()

	s := NewCatalogSuggester(testSource())
	got, err := s.Suggest(context.Background(), Request{Skills: []string{"react"}, DesiredRoles: []string{"engineer"}})
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	// Docker appears in two engineer postings; the rest keep first-seen order.
	want := []string{"Docker", "CSS", "TypeScript", "Go", "PostgreSQL", "Kubernetes"}
	if !reflect.DeepEqual(got.Skills, want) {
		t.Fatalf("expected %v, got %v", want, got.Skills)
	}
	if !reflect.DeepEqual(got.Roles, []string{"Full Stack Developer"}) {
		t.Fatalf("expected related non-desired role, got %v", got.Roles)
	}
}

func TestSuggestWithoutInput(t *testing.T) {
	t.Parallel()

	s := NewCatalogSuggester(testSource())
	got, err := s.Suggest(context.Background(), Request{Limit: 2})
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if !reflect.DeepEqual(got.Skills, []string{"Docker", "React"}) {
		t.Fatalf("expected most common skills, got %v", got.Skills)
	}
	if got.Roles == nil || len(got.Roles) != 0 {
		t.Fatalf("expected no role suggestions without skills, got %v", got.Roles)
	}
}

func TestSuggestRejectsNegativeLimit(t *testing.T) {
	t.Parallel()

	s := NewCatalogSuggester(testSource())
	if _, err := s.Suggest(context.Background(), Request{Limit: -3}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
