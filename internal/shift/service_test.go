package shift

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/models"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// recordingNotifier captures every published notification job.
type recordingNotifier struct {
	userIDs  []string
	payloads []notify.Payload
	err      error
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID string, payload notify.Payload) error {
	n.userIDs = append(n.userIDs, userID)
	n.payloads = append(n.payloads, payload)
	return n.err
}

func newTestService(notifier Notifier) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	svc := NewService(ServiceConfig{
		Repo:     repo,
		Notifier: notifier,
		Logger:   zerolog.Nop(),
	})
	return svc, repo
}

func validCreateRequest() *models.ShiftCreateRequest {
	starts := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	ends := starts.Add(8 * time.Hour)
	return &models.ShiftCreateRequest{
		UserID:   "usr_1",
		Title:    "Morning care round",
		Location: "Broad Oak House",
		StartsAt: models.Timestamp(starts),
		EndsAt:   models.Timestamp(ends),
	}
}

func fieldErrorFor(t *testing.T, err error, field string) models.FieldError {
	t.Helper()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, fe := range verr.Errors {
		if fe.Field == field {
			return fe
		}
	}
	t.Fatalf("no validation error for field %q in %v", field, verr.Errors)
	return models.FieldError{}
}

func TestCreateShift(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	shift, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(shift.ID, "shf_") {
		t.Errorf("shift ID %q should carry the shf_ prefix", shift.ID)
	}
	if shift.Status != models.ShiftStatusPending {
		t.Errorf("new shift status = %q, want PENDING", shift.Status)
	}

	if len(notifier.userIDs) != 1 || notifier.userIDs[0] != "usr_1" {
		t.Fatalf("expected 1 notification for usr_1, got %v", notifier.userIDs)
	}
	payload := notifier.payloads[0]
	if payload.Title != "New shift assigned" {
		t.Errorf("notification title = %q", payload.Title)
	}
	if payload.URL != "/shift/"+shift.ID {
		t.Errorf("notification URL = %q, want /shift/%s", payload.URL, shift.ID)
	}
}

func TestCreateShiftValidation(t *testing.T) {
	svc, _ := newTestService(nil)

	tests := []struct {
		name   string
		mutate func(*models.ShiftCreateRequest)
		field  string
	}{
		{
			name:   "missing user",
			mutate: func(r *models.ShiftCreateRequest) { r.UserID = "" },
			field:  "userId",
		},
		{
			name:   "missing title",
			mutate: func(r *models.ShiftCreateRequest) { r.Title = "" },
			field:  "title",
		},
		{
			name:   "title too long",
			mutate: func(r *models.ShiftCreateRequest) { r.Title = strings.Repeat("x", 121) },
			field:  "title",
		},
		{
			name:   "location too long",
			mutate: func(r *models.ShiftCreateRequest) { r.Location = strings.Repeat("x", 121) },
			field:  "location",
		},
		{
			name:   "ends before starts",
			mutate: func(r *models.ShiftCreateRequest) { r.EndsAt = models.Timestamp(r.StartsAt.Time().Add(-time.Hour)) },
			field:  "endsAt",
		},
		{
			name:   "ends equals starts",
			mutate: func(r *models.ShiftCreateRequest) { r.EndsAt = r.StartsAt },
			field:  "endsAt",
		},
		{
			name: "notes too long",
			mutate: func(r *models.ShiftCreateRequest) {
				notes := strings.Repeat("x", 501)
				r.Notes = &notes
			},
			field: "notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateRequest()
			tt.mutate(input)

			_, err := svc.Create(context.Background(), input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			fieldErrorFor(t, err, tt.field)
		})
	}
}

func TestUpdateShift(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTitle := "Evening care round"
	updated, err := svc.Update(context.Background(), "usr_1", created.ID, &models.ShiftUpdateRequest{
		Title: &newTitle,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}
	if updated.Location != created.Location {
		t.Errorf("location changed unexpectedly: %q", updated.Location)
	}

	if len(notifier.payloads) != 2 {
		t.Fatalf("expected create + update notifications, got %d", len(notifier.payloads))
	}
	if notifier.payloads[1].Title != "Shift updated" {
		t.Errorf("update notification title = %q", notifier.payloads[1].Title)
	}
}

func TestUpdateShiftRejectsInvertedInterval(t *testing.T) {
	svc, _ := newTestService(nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	badEnd := models.Timestamp(created.StartsAt.Time().Add(-time.Hour))
	_, err = svc.Update(context.Background(), "usr_1", created.ID, &models.ShiftUpdateRequest{
		EndsAt: &badEnd,
	})
	if err == nil {
		t.Fatal("expected validation error for inverted interval")
	}
	fieldErrorFor(t, err, "endsAt")
}

func TestUpdateShiftNotFound(t *testing.T) {
	svc, _ := newTestService(nil)

	title := "anything"
	_, err := svc.Update(context.Background(), "usr_1", "shf_missing", &models.ShiftUpdateRequest{
		Title: &title,
	})
	if !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc, _ := newTestService(nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	confirmed, err := svc.SetStatus(context.Background(), "usr_1", created.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if confirmed.Status != models.ShiftStatusConfirmed {
		t.Errorf("status = %q, want CONFIRMED", confirmed.Status)
	}

	got, err := svc.Get(context.Background(), "usr_1", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.ShiftStatusConfirmed {
		t.Errorf("persisted status = %q, want CONFIRMED", got.Status)
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc, _ := newTestService(nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.SetStatus(context.Background(), "usr_1", created.ID, Status("MAYBE"))
	if err == nil {
		t.Fatal("expected validation error for unknown status")
	}
	fieldErrorFor(t, err, "status")
}

func TestDeleteShift(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(notifier)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), "usr_1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = svc.Get(context.Background(), "usr_1", created.ID)
	if !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound after delete, got %v", err)
	}

	last := notifier.payloads[len(notifier.payloads)-1]
	if last.Title != "Shift cancelled" {
		t.Errorf("cancellation notification title = %q", last.Title)
	}
}

func TestGetScopedToUser(t *testing.T) {
	svc, _ := newTestService(nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Get(context.Background(), "usr_other", created.ID)
	if !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("another user's lookup should see not-found, got %v", err)
	}
}

func TestListFiltersByFrom(t *testing.T) {
	svc, _ := newTestService(nil)

	past := validCreateRequest()
	past.StartsAt = models.Timestamp(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
	past.EndsAt = models.Timestamp(time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC))
	if _, err := svc.Create(context.Background(), past); err != nil {
		t.Fatalf("Create past shift: %v", err)
	}

	future := validCreateRequest()
	if _, err := svc.Create(context.Background(), future); err != nil {
		t.Fatalf("Create future shift: %v", err)
	}

	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	page, err := svc.List(context.Background(), "usr_1", 50, &from)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 shift ending after the cutoff, got %d", len(page.Items))
	}
}

func TestNotifierFailureDoesNotFailWrite(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker unavailable")}
	svc, _ := newTestService(notifier)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create should succeed despite notifier failure, got %v", err)
	}

	got, err := svc.Get(context.Background(), "usr_1", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("unexpected shift %q", got.ID)
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	svc, _ := newTestService(nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), "usr_1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
