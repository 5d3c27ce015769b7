package announcement

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// recordingBroadcaster captures every portal-wide broadcast.
type recordingBroadcaster struct {
	payloads []notify.Payload
	err      error
}

func (b *recordingBroadcaster) NotifyAll(_ context.Context, payload notify.Payload) error {
	b.payloads = append(b.payloads, payload)
	return b.err
}

func newTestService(broadcaster Broadcaster) *Service {
	return NewService(ServiceConfig{
		Repo:        NewInMemoryRepository(),
		Broadcaster: broadcaster,
		Logger:      zerolog.Nop(),
	})
}

func TestCreateAnnouncement(t *testing.T) {
	broadcaster := &recordingBroadcaster{}
	svc := newTestService(broadcaster)

	ann, err := svc.Create(context.Background(), "usr_author", &models.AnnouncementCreateRequest{
		Title: "Rota published",
		Body:  "The October rota is now available.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(ann.ID, "ann_") {
		t.Errorf("announcement ID %q should carry the ann_ prefix", ann.ID)
	}
	if ann.AuthorID != "usr_author" {
		t.Errorf("author = %q, want usr_author", ann.AuthorID)
	}

	if len(broadcaster.payloads) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(broadcaster.payloads))
	}
	payload := broadcaster.payloads[0]
	if payload.Title != "Rota published" {
		t.Errorf("broadcast title = %q", payload.Title)
	}
	if payload.URL != "/announcements/"+ann.ID {
		t.Errorf("broadcast URL = %q, want /announcements/%s", payload.URL, ann.ID)
	}
}

func TestCreateAnnouncementValidation(t *testing.T) {
	svc := newTestService(nil)

	tests := []struct {
		name  string
		input models.AnnouncementCreateRequest
		field string
	}{
		{
			name:  "missing title",
			input: models.AnnouncementCreateRequest{Body: "body"},
			field: "title",
		},
		{
			name:  "title too long",
			input: models.AnnouncementCreateRequest{Title: strings.Repeat("x", 121), Body: "body"},
			field: "title",
		},
		{
			name:  "missing body",
			input: models.AnnouncementCreateRequest{Title: "title"},
			field: "body",
		},
		{
			name:  "body too long",
			input: models.AnnouncementCreateRequest{Title: "title", Body: strings.Repeat("x", 2001)},
			field: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "usr_author", &tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("no validation error for field %q in %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestBroadcastFailureDoesNotFailWrite(t *testing.T) {
	broadcaster := &recordingBroadcaster{err: errors.New("broker unavailable")}
	svc := newTestService(broadcaster)

	ann, err := svc.Create(context.Background(), "usr_author", &models.AnnouncementCreateRequest{
		Title: "Rota published",
		Body:  "The October rota is now available.",
	})
	if err != nil {
		t.Fatalf("Create should succeed despite broadcast failure, got %v", err)
	}

	page, err := svc.List(context.Background(), 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != ann.ID {
		t.Fatalf("announcement should be stored, got %+v", page.Items)
	}
}

func TestNilBroadcasterIsSafe(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.Create(context.Background(), "usr_author", &models.AnnouncementCreateRequest{
		Title: "Rota published",
		Body:  "The October rota is now available.",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestListHonorsLimit(t *testing.T) {
	svc := newTestService(nil)

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := svc.Create(context.Background(), "usr_author", &models.AnnouncementCreateRequest{
			Title: title,
			Body:  "body",
		}); err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
	}

	page, err := svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected limit to cap the page at 2, got %d", len(page.Items))
	}
	if page.Meta.Limit != 2 {
		t.Errorf("meta limit = %d, want 2", page.Meta.Limit)
	}
}

func TestDeleteAnnouncement(t *testing.T) {
	svc := newTestService(nil)

	ann, err := svc.Create(context.Background(), "usr_author", &models.AnnouncementCreateRequest{
		Title: "Rota published",
		Body:  "body",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), ann.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), ann.ID); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Fatalf("second delete should report not-found, got %v", err)
	}
}
