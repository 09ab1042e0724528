package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/reporting"
)

const commandTimeout = 2 * time.Minute

func newEngagementCmd(opts *options) *cobra.Command {
	var (
		solicitorID string
		teamID      string
		rangeParam  string
		from, to    string
		metrics     []string
		top         int
	)

	cmd := &cobra.Command{
		Use:   "engagement",
		Short: "Compare a solicitor's or team's engagement with the previous period",
		Example: `  report engagement --solicitor sol_001 --range 30
  report engagement --team team_corp --range custom --from 2024-01-01 --to 2024-01-31 --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validateFormat(); err != nil {
				return err
			}
			subject, err := subjectOf(solicitorID, teamID)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			e, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer e.cleanup()

			r, err := e.generator.Generate(ctx, reporting.Request{
				Subject:  subject,
				Selector: period.ParseSelector(rangeParam, from, to),
				Today:    e.today,
				Metrics:  metrics,
				TopN:     top,
			})
			if err != nil {
				return err
			}

			if opts.format == "csv" {
				out, err := reporting.RenderCSV(r)
				if err != nil {
					return err
				}
				return opts.write(cmd.OutOrStdout(), out)
			}
			return opts.write(cmd.OutOrStdout(), reporting.RenderMarkdown(r))
		},
	}

	f := cmd.Flags()
	f.StringVar(&solicitorID, "solicitor", "", "Solicitor ID")
	f.StringVar(&teamID, "team", "", "Team ID")
	f.StringVar(&rangeParam, "range", "30", "Window: day count, ytd or custom")
	f.StringVar(&from, "from", "", "Custom window start YYYY-MM-DD")
	f.StringVar(&to, "to", "", "Custom window end YYYY-MM-DD")
	f.StringSliceVar(&metrics, "metrics", nil, "Metrics to compare (default: per subject kind)")
	f.IntVar(&top, "top", 5, "Leaderboard rows to include (0 to skip)")
	return cmd
}

func newLeaderboardCmd(opts *options) *cobra.Command {
	var (
		metric     string
		rangeParam string
		from, to   string
		n          int
		teams      bool
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank solicitors or teams by clicks",
		Example: `  report leaderboard --metric bio_clicks --range 30 --n 10
  report leaderboard --teams --format csv -o teams.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validateFormat(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			e, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer e.cleanup()

			r, err := e.generator.GenerateLeaderboard(ctx, reporting.LeaderboardRequest{
				Metric:   metric,
				Selector: period.ParseSelector(rangeParam, from, to),
				Today:    e.today,
				TopN:     n,
				Teams:    teams,
			})
			if err != nil {
				return err
			}

			if opts.format == "csv" {
				out, err := reporting.RenderLeaderboardCSV(r)
				if err != nil {
					return err
				}
				return opts.write(cmd.OutOrStdout(), out)
			}
			return opts.write(cmd.OutOrStdout(), reporting.RenderLeaderboardMarkdown(r))
		},
	}

	f := cmd.Flags()
	f.StringVar(&metric, "metric", domain.MetricBioClicks, "Metric to rank by")
	f.StringVar(&rangeParam, "range", "30", "Window: day count, ytd or custom")
	f.StringVar(&from, "from", "", "Custom window start YYYY-MM-DD")
	f.StringVar(&to, "to", "", "Custom window end YYYY-MM-DD")
	f.IntVar(&n, "n", 10, "Number of rows")
	f.BoolVar(&teams, "teams", false, "Rank teams instead of solicitors")
	return cmd
}

func subjectOf(solicitorID, teamID string) (domain.Subject, error) {
	switch {
	case solicitorID != "" && teamID != "":
		return domain.Subject{}, errors.New("--solicitor and --team are mutually exclusive")
	case solicitorID != "":
		return domain.SolicitorSubject(solicitorID), nil
	case teamID != "":
		return domain.TeamSubject(teamID), nil
	default:
		return domain.Subject{}, errors.New("one of --solicitor or --team is required")
	}
}
