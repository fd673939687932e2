package publication

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/atlasos/atlas/internal/platform/errors"
	"github.com/atlasos/atlas/internal/spine/command"
	"github.com/atlasos/atlas/internal/spine/event"
	"github.com/atlasos/atlas/internal/spine/storage/sqlite"
)

func fixedNow() time.Time {
	return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	registry := event.NewRegistry()
	registry.Register(EntityType, EventTypes()...)
	svc := NewService(store, registry)
	svc.now = fixedNow
	return svc
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusRejected, StatusSubmitted, true},
		{StatusSubmitted, StatusAccepted, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusAccepted, StatusPublished, true},
		{StatusDraft, StatusAccepted, false},
		{StatusDraft, StatusPublished, false},
		{StatusSubmitted, StatusPublished, false},
		{StatusAccepted, StatusSubmitted, false},
		{StatusPublished, StatusSubmitted, false},
		{StatusRejected, StatusPublished, false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDecideInvalidTransitionEmitsNothing(t *testing.T) {
	draft := State{Created: true, ID: 1, Status: StatusDraft}
	for _, cmdType := range []command.Type{CommandAccept, CommandReject, CommandPublish} {
		decision := Decide(draft, command.Command{Type: cmdType, EntityType: EntityType, EntityID: 1}, fixedNow)
		if !decision.Rejected() {
			t.Fatalf("%s accepted from draft", cmdType)
		}
		if decision.Rejections[0].Code != apperrors.CodePublicationInvalidTransition {
			t.Fatalf("%s code = %s", cmdType, decision.Rejections[0].Code)
		}
		if len(decision.Events) != 0 {
			t.Fatalf("%s emitted events on rejection", cmdType)
		}
	}
}

func TestDecideSubmitRequiresVenue(t *testing.T) {
	draft := State{Created: true, ID: 1, Status: StatusDraft}
	decision := Decide(draft, command.Command{Type: CommandSubmit, EntityType: EntityType, EntityID: 1}, fixedNow)
	if decision.Rejections[0].Code != apperrors.CodePublicationInvalidVenue {
		t.Fatalf("code = %s", decision.Rejections[0].Code)
	}

	// A venue already on the publication satisfies the submit.
	withVenue := State{Created: true, ID: 1, Status: StatusDraft, Venue: "GopherCon"}
	decision = Decide(withVenue, command.Command{Type: CommandSubmit, EntityType: EntityType, EntityID: 1}, fixedNow)
	if decision.Rejected() {
		t.Fatalf("rejected: %+v", decision.Rejections)
	}
}

func TestServiceFullLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	pub, err := s.Create(ctx, CreatePayload{Title: "Event spines in Go", Authors: []string{"A. Writer"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pub.Status != StatusDraft {
		t.Fatalf("status = %s, want draft", pub.Status)
	}

	pub, err = s.Submit(ctx, pub.ID, "GopherCon")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if pub.Status != StatusSubmitted || pub.Venue != "GopherCon" || pub.Submissions != 1 {
		t.Fatalf("after submit: %+v", pub)
	}

	pub, err = s.Accept(ctx, pub.ID, "minor revisions")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	pub, err = s.Publish(ctx, pub.ID, "https://example.com/paper")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pub.Status != StatusPublished || pub.URL != "https://example.com/paper" {
		t.Fatalf("after publish: %+v", pub)
	}
	if pub.PublishedAt.IsZero() {
		t.Fatal("published at not set")
	}
}

func TestServiceResubmitAfterRejection(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	pub, err := s.Create(ctx, CreatePayload{Title: "Event spines in Go", Venue: "JournalA"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Submit(ctx, pub.ID, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Reject(ctx, pub.ID, "out of scope"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	pub, err = s.Submit(ctx, pub.ID, "JournalB")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if pub.Venue != "JournalB" || pub.Submissions != 2 {
		t.Fatalf("after resubmit: %+v", pub)
	}
}

func TestServiceInvalidTransitionCode(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	pub, err := s.Create(ctx, CreatePayload{Title: "Draft only"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Publish(ctx, pub.ID, ""); apperrors.CodeOf(err) != apperrors.CodePublicationInvalidTransition {
		t.Fatalf("publish from draft code = %s", apperrors.CodeOf(err))
	}
}

func TestServiceListByStatus(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, CreatePayload{Title: "One", Venue: "V"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, CreatePayload{Title: "Two"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Submit(ctx, first.ID, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	drafts, err := s.List(ctx, StatusDraft)
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Title != "Two" {
		t.Fatalf("drafts: %+v", drafts)
	}
}
