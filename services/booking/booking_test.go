package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"studybuddy/database/repository/memory"
	"studybuddy/models"
	"studybuddy/utils"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type recordingCompletion struct {
	scheduled []models.Booking
}

func (r *recordingCompletion) Schedule(_ context.Context, b models.Booking, _ *time.Location) error {
	r.scheduled = append(r.scheduled, b)
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateListing(context.Context) { c.calls++ }

type fixture struct {
	svc         *DefaultBookingService
	store       *memory.Store
	completion  *recordingCompletion
	invalidator *countingInvalidator
}

func newFixture(t *testing.T, slots ...models.Slot) *fixture {
	t.Helper()
	store := memory.NewStore()
	user := &models.User{ID: "u-tutor", Name: "Ada", Email: "ada@uni.test", Role: models.RoleTutor}
	profile := models.NewTutorProfile("T", user)
	profile.Modules = []string{"CS101", "CS102"}
	profile.Availability = slots
	if err := store.Users().Create(context.Background(), user, profile); err != nil {
		t.Fatal(err)
	}

	n := 0
	f := &fixture{store: store, completion: &recordingCompletion{}, invalidator: &countingInvalidator{}}
	f.svc = &DefaultBookingService{
		Scheduler:  store.Scheduler(),
		Tutors:     store.Tutors(),
		Completion: f.completion,
		Listings:   f.invalidator,
		Location:   time.UTC,
		Now:        func() time.Time { return fixedNow },
		Allocate:   func() string { n++; return fmt.Sprintf("new-%d", n) },
	}
	return f
}

func (f *fixture) availability(t *testing.T) []models.Slot {
	t.Helper()
	tutor, err := f.store.Tutors().GetByID(context.Background(), "T")
	if err != nil {
		t.Fatal(err)
	}
	return tutor.Availability
}

func slot(id, date, tm string) models.Slot {
	return models.Slot{ID: id, Date: date, Time: tm, Status: models.SlotAvailable}
}

func createReq(slotID, date, tm string) models.CreateBookingRequest {
	return models.CreateBookingRequest{StudentID: "S", TutorID: "T", Module: "CS101", Date: date, Time: tm, SlotID: slotID}
}

func TestEndToEnd_BookThenCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"))

	b, err := f.svc.Create(ctx, createReq("s1", "2024-07-01", "10:00"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.Status != models.BookingConfirmed || b.TutorName != "Ada" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if got := f.availability(t); len(got) != 0 {
		t.Fatalf("expected empty availability, got %+v", got)
	}

	if _, err := f.svc.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	got := f.availability(t)
	if len(got) != 1 || got[0].Date != "2024-07-01" || got[0].Time != "10:00" || got[0].Status != models.SlotAvailable {
		t.Fatalf("expected one restored slot, got %+v", got)
	}
	if got[0].ID == "s1" {
		t.Fatal("restored slot must get a fresh id")
	}
	if _, err := f.svc.Get(ctx, b.ID); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected booking deleted, got %v", err)
	}
	if f.invalidator.calls != 2 {
		t.Fatalf("expected listing invalidated twice, got %d", f.invalidator.calls)
	}
}

func TestCreate_RemovesExactlyNamedSlot(t *testing.T) {
	f := newFixture(t,
		slot("a", "2024-07-01", "10:00"),
		slot("b", "2024-07-01", "10:00"),
		slot("c", "2024-07-02", "10:00"),
	)
	if _, err := f.svc.Create(context.Background(), createReq("b", "2024-07-01", "10:00")); err != nil {
		t.Fatal(err)
	}
	got := f.availability(t)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("expected only b removed, got %+v", got)
	}
	if len(f.completion.scheduled) != 1 {
		t.Fatalf("expected completion scheduled, got %d", len(f.completion.scheduled))
	}
}

func TestCreate_FallsBackToDateTime(t *testing.T) {
	f := newFixture(t, slot("a", "2024-07-01", "10:00"), slot("b", "2024-07-01", "11:00"))
	b, err := f.svc.Create(context.Background(), createReq("", "2024-07-01", "1100"))
	if err != nil {
		t.Fatal(err)
	}
	if b.Time != "11:00" {
		t.Fatalf("expected normalized time, got %q", b.Time)
	}
	got := f.availability(t)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected b consumed by date/time, got %+v", got)
	}
}

func TestCreate_SingleDigitHour(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("a", "2024-07-01", "09:00"), slot("b", "2024-07-02", "09:00"))

	b, err := f.svc.Create(ctx, createReq("", "2024-07-01", "9:00"))
	if err != nil {
		t.Fatalf("expected 9:00 to book the 09:00 slot, got %v", err)
	}
	if b.Time != "09:00" {
		t.Fatalf("expected zero-padded time, got %q", b.Time)
	}

	moved, err := f.svc.Reschedule(ctx, b.ID, models.RescheduleBookingRequest{NewDate: "2024-07-02", NewTime: "9:00"})
	if err != nil {
		t.Fatalf("expected reschedule onto 9:00 to succeed, got %v", err)
	}
	if moved.Time != "09:00" {
		t.Fatalf("expected zero-padded time, got %q", moved.Time)
	}
	got := f.availability(t)
	if len(got) != 1 || got[0].Date != "2024-07-01" || got[0].Time != "09:00" {
		t.Fatalf("expected the 09:00 slot restored, got %+v", got)
	}
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"))
	req := createReq("s1", "2024-07-01", "10:00")
	req.Module = ""
	req.TutorName = ""

	b, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if b.Module != "CS101" || b.TutorName != "Ada" {
		t.Fatalf("expected module and name defaults, got %+v", b)
	}
}

func TestCreate_Errors(t *testing.T) {
	cases := []struct {
		name string
		req  models.CreateBookingRequest
		want error
	}{
		{"missing student", models.CreateBookingRequest{TutorID: "T", Date: "2024-07-01", Time: "10:00"}, utils.ErrValidation},
		{"bad date", createReq("s1", "01/07/2024", "10:00"), utils.ErrValidation},
		{"bad time", createReq("s1", "2024-07-01", "ten"), utils.ErrValidation},
		{"unpadded minute", createReq("s1", "2024-07-01", "10:5"), utils.ErrValidation},
		{"unknown tutor", models.CreateBookingRequest{StudentID: "S", TutorID: "X", Date: "2024-07-01", Time: "10:00"}, utils.ErrNotFound},
		{"own profile", models.CreateBookingRequest{StudentID: "u-tutor", TutorID: "T", Date: "2024-07-01", Time: "10:00"}, utils.ErrValidation},
		{"slot gone", createReq("zzz", "2024-07-01", "10:00"), utils.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, slot("s1", "2024-07-01", "10:00"))
			_, err := f.svc.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got := f.availability(t); len(got) != 1 {
				t.Fatalf("failed create must leave availability untouched, got %+v", got)
			}
		})
	}
}

func TestReschedule_SwapsSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"), slot("s2", "2024-07-05", "14:00"))
	b, err := f.svc.Create(ctx, createReq("s1", "2024-07-01", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	moved, err := f.svc.Reschedule(ctx, b.ID, models.RescheduleBookingRequest{NewSlotID: "s2"})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if moved.Date != "2024-07-05" || moved.Time != "14:00" || moved.Status != models.BookingRescheduled {
		t.Fatalf("unexpected rescheduled booking %+v", moved)
	}

	got := f.availability(t)
	if len(got) != 1 || got[0].Date != "2024-07-01" || got[0].Time != "10:00" || got[0].ID == "s1" {
		t.Fatalf("expected old slot restored under a new id, got %+v", got)
	}
}

func TestReschedule_LegacyDateTimeKeys(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"), slot("s2", "2024-07-05", "14:00"))
	b, _ := f.svc.Create(ctx, createReq("s1", "2024-07-01", "10:00"))

	moved, err := f.svc.Reschedule(ctx, b.ID, models.RescheduleBookingRequest{Date: "2024-07-05", Time: "1400"})
	if err != nil {
		t.Fatal(err)
	}
	if moved.Time != "14:00" {
		t.Fatalf("expected booking at 14:00, got %+v", moved)
	}
}

func TestReschedule_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"), slot("s2", "2024-07-05", "14:00"))
	b, _ := f.svc.Create(ctx, createReq("s1", "2024-07-01", "10:00"))

	if _, err := f.svc.Reschedule(ctx, b.ID, models.RescheduleBookingRequest{}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, "missing", models.RescheduleBookingRequest{NewSlotID: "s2"}); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, b.ID, models.RescheduleBookingRequest{NewDate: "2024-08-01", NewTime: "10:00"}); !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := f.availability(t); len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("failed reschedule must not change availability, got %+v", got)
	}
}

func TestCancelThenRebook_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"))
	first, _ := f.svc.Create(ctx, createReq("s1", "2024-07-01", "10:00"))
	if _, err := f.svc.Cancel(ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	restored := f.availability(t)[0]
	second, err := f.svc.Create(ctx, createReq(restored.ID, restored.Date, restored.Time))
	if err != nil {
		t.Fatal(err)
	}
	if second.Date != first.Date || second.Time != first.Time || second.TutorID != first.TutorID || second.StudentID != first.StudentID {
		t.Fatalf("expected equivalent booking, got %+v vs %+v", second, first)
	}
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Cancel(context.Background(), "missing"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, slot("s1", "2024-07-01", "10:00"))
	b, _ := f.svc.Create(ctx, createReq("s1", "2024-07-01", "10:00"))

	done, err := f.svc.Complete(ctx, models.CompletionPayload{BookingID: b.ID, Date: b.Date, Time: b.Time})
	if err != nil || !done {
		t.Fatalf("expected completion, got %v %v", done, err)
	}
	if _, err := f.svc.Reschedule(ctx, b.ID, models.RescheduleBookingRequest{NewDate: "2024-07-01", NewTime: "10:00"}); !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("completed bookings must not move, got %v", err)
	}
	done, _ = f.svc.Complete(ctx, models.CompletionPayload{BookingID: b.ID, Date: b.Date, Time: b.Time})
	if done {
		t.Fatal("second completion must be a no-op")
	}
}

func TestListGrouped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		slot("past-old", "2024-05-01", "10:00"),
		slot("past-recent", "2024-06-01", "09:00"),
		slot("soon", "2024-06-01", "11:00"),
		slot("later", "2024-06-10", "08:00"),
	)
	for _, id := range []string{"later", "past-old", "soon", "past-recent"} {
		var s models.Slot
		for _, candidate := range f.availability(t) {
			if candidate.ID == id {
				s = candidate
			}
		}
		if _, err := f.svc.Create(ctx, createReq(id, s.Date, s.Time)); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}

	all, err := f.svc.ListForStudent(ctx, "S")
	if err != nil || len(all) != 4 {
		t.Fatalf("expected four bookings, got %d (%v)", len(all), err)
	}

	grouped, err := f.svc.ListGrouped(ctx, "S")
	if err != nil {
		t.Fatal(err)
	}
	if len(grouped.Upcoming) != 2 || grouped.Upcoming[0].Date != "2024-06-01" || grouped.Upcoming[1].Date != "2024-06-10" {
		t.Fatalf("unexpected upcoming %+v", grouped.Upcoming)
	}
	if len(grouped.Past) != 2 || grouped.Past[0].Date != "2024-06-01" || grouped.Past[1].Date != "2024-05-01" {
		t.Fatalf("unexpected past %+v", grouped.Past)
	}

	empty, err := f.svc.ListGrouped(ctx, "nobody")
	if err != nil || empty.Upcoming == nil || empty.Past == nil {
		t.Fatalf("expected empty non-nil groups, got %+v (%v)", empty, err)
	}
}
