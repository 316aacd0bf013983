package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"huntier/internal/config"
)

func TestRunOnceManual(t *testing.T) {
	t.Parallel()

	stub := &stubScheduler{created: 3}
	builds := 0
	cleaned := 0

	sent, err := runOnceManual(context.Background(), config.AppConfig{}, func(config.AppConfig) (appDeps, func(), error) {
		builds++
		return appDeps{sched: stub}, func() { cleaned++ }, nil
	})
	if err != nil {
		t.Fatalf("runOnceManual error: %v", err)
	}
	if sent != 3 {
		t.Fatalf("expected sent=3, got %d", sent)
	}
	if builds != 1 {
		t.Fatalf("expected builder called once, got %d", builds)
	}
	if stub.runOnceCalls != 1 {
		t.Fatalf("expected RunOnce called once, got %d", stub.runOnceCalls)
	}
	if cleaned != 1 {
		t.Fatalf("expected cleanup called once, got %d", cleaned)
	}
}

func TestRunOnceManualBuilderError(t *testing.T) {
	t.Parallel()

	_, err := runOnceManual(context.Background(), config.AppConfig{}, func(config.AppConfig) (appDeps, func(), error) {
		return appDeps{}, func() {}, errors.New("build fail")
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRunOnceManualRunError(t *testing.T) {
	t.Parallel()

	stub := &stubScheduler{err: errors.New("smtp down")}
	_, err := runOnceManual(context.Background(), config.AppConfig{}, func(config.AppConfig) (appDeps, func(), error) {
		return appDeps{sched: stub}, func() {}, nil
	})
	if err == nil {
		t.Fatalf("expected run error")
	}
}

// --- stubs ---

type stubScheduler struct {
	created      int
	err          error
	runOnceCalls int
}

func (s *stubScheduler) RunOnce(context.Context) (int, error) {
	s.runOnceCalls++
	return s.created, s.err
}

func (s *stubScheduler) Start(context.Context) error {
	return nil
}

func TestDigestCommandHelpMentionsResend(t *testing.T) {
	t.Parallel()

	cmd := newDigestCmd(&rootOptions{})
	if !strings.Contains(cmd.Long, "lookback") || !strings.Contains(cmd.Long, "same applicants again") {
		t.Fatalf("expected help to describe lookback resends, got %q", cmd.Long)
	}
}
