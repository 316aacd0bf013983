package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"huntier/internal/apperr"
	"huntier/internal/model"
)

func TestServiceNormalizesAndStores(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	notif := &stubNotifier{}
	svc := NewService(store, notif, nil)

	raw := map[string]any{
		"name":      "Jane Doe",
		"email":     "jane@x.com",
		"skills":    []any{"Go"},
		"languages": []any{"English"},
	}
	got, err := svc.Submit(context.Background(), raw)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected store called once, got %d", store.calls)
	}
	if got.ID != 1 || got.CreatedAt.IsZero() {
		t.Fatalf("expected id and createdAt assigned, got %+v", got)
	}
	if got.FirstName != nil || got.RemoteOption || got.SalaryExpectations != nil {
		t.Fatalf("unexpected canonical defaults: %+v", got.ApplicantProfile)
	}
	if len(got.Skills) != 1 || got.Skills[0] != "Go" {
		t.Fatalf("unexpected skills %#v", got.Skills)
	}
	if notif.calls != 1 {
		t.Fatalf("expected notifier called once, got %d", notif.calls)
	}
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := NewService(store, nil, nil)

	cases := []map[string]any{
		{"email": "jane@x.com"},
		{"name": "Jane"},
		{"name": "", "firstName": "", "email": "jane@x.com"},
	}
	for i, raw := range cases {
		_, err := svc.Submit(context.Background(), raw)
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !apperr.IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("expected store not called on invalid input")
	}
}

func TestServiceWrapsStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	store := &stubStore{err: cause}
	notif := &stubNotifier{}
	svc := NewService(store, notif, nil)

	_, err := svc.Submit(context.Background(), map[string]any{"name": "Jane", "email": "jane@x.com"})
	if err == nil {
		t.Fatalf("expected error when store fails")
	}
	if !apperr.IsStorage(err) {
		t.Fatalf("expected storage error, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected underlying cause preserved")
	}
	if store.calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", store.calls)
	}
	if notif.calls != 0 {
		t.Fatalf("expected no notification on failure")
	}
}

func TestServiceIgnoresNotifierFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	notif := &stubNotifier{err: errors.New("smtp down")}
	svc := NewService(store, notif, nil)

	if _, err := svc.Submit(context.Background(), map[string]any{"name": "Jane", "email": "jane@x.com"}); err != nil {
		t.Fatalf("notifier failure must not fail submission: %v", err)
	}
}

type stubStore struct {
	calls int
	err   error
}

func (s *stubStore) CreateApplicant(ctx context.Context, profile model.ApplicantProfile) (model.Applicant, error) {
	s.calls++
	if s.err != nil {
		return model.Applicant{}, s.err
	}
	return model.Applicant{ID: uint(s.calls), ApplicantProfile: profile, CreatedAt: time.Now()}, nil
}

type stubNotifier struct {
	calls int
	err   error
}

func (n *stubNotifier) Notify(ctx context.Context, applicants []model.Applicant) error {
	n.calls++
	return n.err
}
