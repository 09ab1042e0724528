package memory

import (
	"context"
	"errors"
	"testing"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

func TestEventStore_InsertAndList(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	events := []*domain.Event{
		{ID: "e2", Title: "Webinar", Type: "Webinar", StartDate: "2024-05-01", EndDate: "2024-05-01"},
		{ID: "e1", Title: "Conference", Type: "Event", StartDate: "2024-03-10", EndDate: "2024-03-12"},
		{ID: "e0", Title: "Release", Type: "PR Release", StartDate: "2024-05-01", EndDate: "2024-05-01"},
	}
	for _, e := range events {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	if err := store.Insert(ctx, events[0]); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Event{ID: "x"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 || list[0].ID != "e1" || list[1].ID != "e0" || list[2].ID != "e2" {
		t.Errorf("List order = %v", list)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEventStore_Links(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	_ = store.Insert(ctx, &domain.Event{ID: "e1", Title: "Conference", StartDate: "2024-03-10", EndDate: "2024-03-10"})

	if err := store.LinkSolicitors(ctx, "e1", []string{"s2", "s1"}); err != nil {
		t.Fatalf("LinkSolicitors failed: %v", err)
	}
	if err := store.LinkTeams(ctx, "e1", []string{"t1"}); err != nil {
		t.Fatalf("LinkTeams failed: %v", err)
	}

	// Batch with one existing link is rejected as a whole
	if err := store.LinkSolicitors(ctx, "e1", []string{"s3", "s1"}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.LinkTeams(ctx, "missing", []string{"t1"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	sols, _ := store.SolicitorIDs(ctx, "e1")
	if len(sols) != 2 || sols[0] != "s1" || sols[1] != "s2" {
		t.Errorf("SolicitorIDs = %v", sols)
	}
	teams, _ := store.TeamIDs(ctx, "e1")
	if len(teams) != 1 || teams[0] != "t1" {
		t.Errorf("TeamIDs = %v", teams)
	}

	if err := store.LinkTeams(ctx, "e1", nil); err != nil {
		t.Errorf("empty link should be a no-op, got %v", err)
	}
}
