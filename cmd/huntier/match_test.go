package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"huntier/internal/apperr"
	"huntier/internal/catalog"
	"huntier/internal/match"
	"huntier/internal/model"
)

func TestRunMatchPrintsRankedJobs(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	var out bytes.Buffer
	if err := runMatch(context.Background(), &out, match.NewLexicalScorer(cat), match.Request{Skills: []string{"Go"}, Limit: 2}); err != nil {
		t.Fatalf("runMatch error: %v", err)
	}

	var jobs []model.JobPosting
	if err := json.Unmarshal(out.Bytes(), &jobs); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].MatchPercentage < jobs[1].MatchPercentage {
		t.Fatalf("expected descending order, got %d then %d", jobs[0].MatchPercentage, jobs[1].MatchPercentage)
	}
}

func TestRunMatchRejectsNegativeLimit(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	var out bytes.Buffer
	err = runMatch(context.Background(), &out, match.NewLexicalScorer(cat), match.Request{Limit: -1})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestMatchCommandFlags(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"match", "--config", t.TempDir() + "/missing.yaml", "--skills", "React,TypeScript", "--limit", "1"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var jobs []model.JobPosting
	if err := json.Unmarshal(out.Bytes(), &jobs); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
}
