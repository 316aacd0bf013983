package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"huntier/internal/catalog"
	"huntier/internal/match"

	"github.com/spf13/cobra"
)

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var req match.Request

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank catalog jobs for the given skills and print them as JSON",
		Example: `  huntier match --skills Go,PostgreSQL --roles backend
  huntier match -s React -l 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			return runMatch(cmd.Context(), cmd.OutOrStdout(), match.NewLexicalScorer(cat), req)
		},
	}

	cmd.Flags().StringSliceVarP(&req.Skills, "skills", "s", nil, "candidate skills, comma separated")
	cmd.Flags().StringSliceVarP(&req.DesiredRoles, "roles", "r", nil, "desired roles, matched against job titles")
	cmd.Flags().IntVarP(&req.Limit, "limit", "l", match.DefaultLimit, "maximum number of jobs")

	return cmd
}

func runMatch(ctx context.Context, w io.Writer, scorer match.MatchScorer, req match.Request) error {
	jobs, err := scorer.Rank(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}
