// Package leaderboard ranks solicitors and teams by clicks over a window.
package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/storage"
)

const (
	// DefaultSize is the length of the home page leaderboards.
	DefaultSize = 10
	// DefaultTeamMembers is the length of a team page's per-metric lists.
	DefaultTeamMembers = 3
)

// Entry is one ranked row.
type Entry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Clicks int64  `json:"clicks"`
}

// Node is a circle-packing hierarchy node. Leaves carry Value.
type Node struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Value    int64   `json:"value,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Service builds leaderboards from stored counters.
type Service struct {
	solicitors storage.SolicitorStore
	teams      storage.TeamStore
	stats      storage.DailyStatStore
}

// NewService creates a new leaderboard Service.
func NewService(solicitors storage.SolicitorStore, teams storage.TeamStore, stats storage.DailyStatStore) *Service {
	return &Service{solicitors: solicitors, teams: teams, stats: stats}
}

// TopSolicitors ranks solicitors with clicks > 0 by metric within w.
// Ties break by name then id. Non-positive n uses DefaultSize.
func (s *Service) TopSolicitors(ctx context.Context, metric string, w period.Window, n int) ([]Entry, error) {
	clicks, names, err := s.solicitorClicks(ctx, metric, w)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(clicks))
	for id, c := range clicks {
		if c > 0 {
			entries = append(entries, Entry{ID: id, Name: names[id], Clicks: c})
		}
	}
	return top(entries, n, DefaultSize), nil
}

// TopTeams ranks teams by the summed metric clicks of their members within w.
// Teams with zero clicks are omitted.
func (s *Service) TopTeams(ctx context.Context, metric string, w period.Window, n int) ([]Entry, error) {
	clicks, _, err := s.solicitorClicks(ctx, metric, w)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	memberships, err := s.teams.Memberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	totals := make(map[string]int64, len(teams))
	for _, m := range memberships {
		totals[m.TeamID] += clicks[m.SolicitorID]
	}

	entries := make([]Entry, 0, len(teams))
	for _, t := range teams {
		if totals[t.ID] > 0 {
			entries = append(entries, Entry{ID: t.ID, Name: t.Name, Clicks: totals[t.ID]})
		}
	}
	return top(entries, n, DefaultSize), nil
}

// TopTeamMembers ranks the members of teamID by metric within w.
// Non-positive n uses DefaultTeamMembers. Unknown teams return storage.ErrNotFound.
func (s *Service) TopTeamMembers(ctx context.Context, teamID, metric string, w period.Window, n int) ([]Entry, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get team %s: %w", teamID, err)
	}

	memberIDs, err := s.teams.MemberIDs(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}

	clicks, names, err := s.solicitorClicks(ctx, metric, w)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(memberIDs))
	for _, id := range memberIDs {
		if clicks[id] > 0 {
			entries = append(entries, Entry{ID: id, Name: names[id], Clicks: clicks[id]})
		}
	}
	return top(entries, n, DefaultTeamMembers), nil
}

// TeamTree returns the "Teams" root with one child per team that has clicks,
// each holding its members with clicks > 0 as leaves.
func (s *Service) TeamTree(ctx context.Context, metric string, w period.Window) (*Node, error) {
	clicks, names, err := s.solicitorClicks(ctx, metric, w)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	memberships, err := s.teams.Memberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	byTeam := make(map[string][]string)
	for _, m := range memberships {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m.SolicitorID)
	}

	root := &Node{Name: "Teams", Children: []*Node{}}
	for _, t := range teams {
		var leaves []Entry
		for _, id := range byTeam[t.ID] {
			if clicks[id] > 0 {
				leaves = append(leaves, Entry{ID: id, Name: names[id], Clicks: clicks[id]})
			}
		}
		if len(leaves) == 0 {
			continue
		}
		sortEntries(leaves)

		node := &Node{ID: t.ID, Name: t.Name}
		for _, e := range leaves {
			node.Children = append(node.Children, &Node{ID: e.ID, Name: e.Name, Value: e.Clicks})
		}
		root.Children = append(root.Children, node)
	}
	return root, nil
}

// SolicitorClicks returns the metric total of every known solicitor within w.
// Solicitors without counters are absent.
func (s *Service) SolicitorClicks(ctx context.Context, metric string, w period.Window) (map[string]int64, error) {
	clicks, _, err := s.solicitorClicks(ctx, metric, w)
	return clicks, err
}

// TeamsOf returns every team of solicitorID scored like TopTeams, zero totals
// included, highest first.
func (s *Service) TeamsOf(ctx context.Context, solicitorID, metric string, w period.Window) ([]Entry, error) {
	teamIDs, err := s.teams.TeamIDsForSolicitor(ctx, solicitorID)
	if err != nil {
		return nil, fmt.Errorf("get teams of %s: %w", solicitorID, err)
	}
	if len(teamIDs) == 0 {
		return []Entry{}, nil
	}

	clicks, _, err := s.solicitorClicks(ctx, metric, w)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(teamIDs))
	for _, tid := range teamIDs {
		t, err := s.teams.GetByID(ctx, tid)
		if err != nil {
			return nil, fmt.Errorf("get team %s: %w", tid, err)
		}
		memberIDs, err := s.teams.MemberIDs(ctx, tid)
		if err != nil {
			return nil, fmt.Errorf("get team members: %w", err)
		}
		var total int64
		for _, id := range memberIDs {
			total += clicks[id]
		}
		entries = append(entries, Entry{ID: t.ID, Name: t.Name, Clicks: total})
	}
	sortEntries(entries)
	return entries, nil
}

// solicitorClicks returns per-solicitor metric totals within w and the solicitor names.
func (s *Service) solicitorClicks(ctx context.Context, metric string, w period.Window) (map[string]int64, map[string]string, error) {
	if !domain.IsKnownMetric(metric) {
		return nil, nil, fmt.Errorf("metric %q: %w", metric, storage.ErrInvalidInput)
	}
	if !w.Ready {
		return nil, nil, fmt.Errorf("leaderboard window: %w", storage.ErrInvalidInput)
	}

	clicks, err := s.stats.SumByKindRange(ctx, domain.SubjectSolicitor, metric, w.Start, w.End)
	if err != nil {
		return nil, nil, fmt.Errorf("sum solicitor clicks: %w", err)
	}

	solicitors, err := s.solicitors.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list solicitors: %w", err)
	}
	names := make(map[string]string, len(solicitors))
	for _, sol := range solicitors {
		names[sol.ID] = sol.Name
	}

	// Counters of deleted or unknown solicitors are not ranked
	for id := range clicks {
		if _, ok := names[id]; !ok {
			delete(clicks, id)
		}
	}
	return clicks, names, nil
}

func top(entries []Entry, n, fallback int) []Entry {
	if n <= 0 {
		n = fallback
	}
	sortEntries(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Clicks != entries[j].Clicks {
			return entries[i].Clicks > entries[j].Clicks
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
}
