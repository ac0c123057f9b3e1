package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"studybuddy/models"
	"studybuddy/utils"
)

func seedTutor(t *testing.T, s *Store, slots ...models.Slot) *models.Tutor {
	t.Helper()
	user := &models.User{ID: "u-tutor", Name: "Ada", Email: "ada@uni.test", Role: models.RoleTutor}
	profile := models.NewTutorProfile("t-1", user)
	profile.Modules = []string{"CS101"}
	profile.Availability = slots
	if err := s.Users().Create(context.Background(), user, profile); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return profile
}

func newBooking(id string) *models.Booking {
	return &models.Booking{
		ID:        id,
		StudentID: "student-1",
		TutorID:   "t-1",
		TutorName: "Ada",
		Module:    "CS101",
		Status:    models.BookingConfirmed,
		CreatedAt: time.Now(),
	}
}

func TestCreateCancelRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s,
		models.Slot{ID: "s1", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable},
		models.Slot{ID: "s2", Date: "2030-01-02", Time: "10:00", Status: models.SlotAvailable},
	)
	sched := s.Scheduler()

	b, err := sched.CreateBooking(ctx, newBooking("b1"), models.SlotRef{ID: "s1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.Date != "2030-01-01" || b.Time != "10:00" {
		t.Fatalf("booking must take the slot's date/time, got %s %s", b.Date, b.Time)
	}

	tutor, _ := s.Tutors().GetByID(ctx, "t-1")
	if len(tutor.Availability) != 1 || tutor.Availability[0].ID != "s2" {
		t.Fatalf("expected s1 consumed, got %+v", tutor.Availability)
	}

	cancelled, err := sched.CancelBooking(ctx, "b1", "restored")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.ID != "b1" {
		t.Fatalf("expected cancelled record returned, got %+v", cancelled)
	}

	tutor, _ = s.Tutors().GetByID(ctx, "t-1")
	if len(tutor.Availability) != 2 || tutor.Availability[0].ID != "restored" {
		t.Fatalf("expected restored slot first, got %+v", tutor.Availability)
	}
	if _, err := sched.GetBooking(ctx, "b1"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected booking gone, got %v", err)
	}
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s, models.Slot{ID: "s1", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable})

	if _, err := s.Scheduler().CreateBooking(ctx, newBooking("b1"), models.SlotRef{ID: "s1"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := s.Scheduler().CreateBooking(ctx, newBooking("b2"), models.SlotRef{Date: "2030-01-01", Time: "10:00"})
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := s.Scheduler().GetBooking(ctx, "b2"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatal("failed create must not leave a booking behind")
	}
}

func TestCreateBooking_UnknownTutor(t *testing.T) {
	s := NewStore()
	_, err := s.Scheduler().CreateBooking(context.Background(), newBooking("b1"), models.SlotRef{ID: "s1"})
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateBooking_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s, models.Slot{ID: "s1", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable})

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Scheduler().CreateBooking(ctx, newBooking(fmt.Sprintf("b%d", i)), models.SlotRef{ID: "s1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, utils.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != workers-1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d conflicts", successes, conflicts)
	}
	list, _ := s.Scheduler().ListByStudent(ctx, "student-1")
	if len(list) != 1 {
		t.Fatalf("expected one stored booking, got %d", len(list))
	}
}

func TestRescheduleBooking(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s,
		models.Slot{ID: "s1", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable},
		models.Slot{ID: "s2", Date: "2030-01-03", Time: "09:00", Status: models.SlotAvailable},
	)
	sched := s.Scheduler()
	if _, err := sched.CreateBooking(ctx, newBooking("b1"), models.SlotRef{ID: "s1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	now := time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)
	b, err := sched.RescheduleBooking(ctx, "b1", models.SlotRef{ID: "s2"}, "back", now)
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if b.Date != "2030-01-03" || b.Time != "09:00" || b.Status != models.BookingRescheduled || !b.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected rescheduled booking %+v", b)
	}

	tutor, _ := s.Tutors().GetByID(ctx, "t-1")
	if len(tutor.Availability) != 1 || tutor.Availability[0].ID != "back" || tutor.Availability[0].Date != "2030-01-01" {
		t.Fatalf("expected old slot restored, got %+v", tutor.Availability)
	}

	_, err = sched.RescheduleBooking(ctx, "b1", models.SlotRef{ID: "missing"}, "x", now)
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected conflict for missing slot, got %v", err)
	}
	tutor, _ = s.Tutors().GetByID(ctx, "t-1")
	if len(tutor.Availability) != 1 {
		t.Fatalf("failed reschedule must not change availability, got %+v", tutor.Availability)
	}
}

func TestCompleteBooking_BlocksLaterChanges(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s, models.Slot{ID: "s1", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable})
	sched := s.Scheduler()
	if _, err := sched.CreateBooking(ctx, newBooking("b1"), models.SlotRef{ID: "s1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if done, _ := sched.CompleteBooking(ctx, "b1", "2030-01-02", "10:00", time.Now()); done {
		t.Fatal("a stale date/time must not complete the booking")
	}
	done, err := sched.CompleteBooking(ctx, "b1", "2030-01-01", "10:00", time.Now())
	if err != nil || !done {
		t.Fatalf("expected completion, got %v %v", done, err)
	}
	if _, err := sched.CancelBooking(ctx, "b1", "x"); !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected completed booking to refuse cancel, got %v", err)
	}
}

func TestListByStudent_SortedAndEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s,
		models.Slot{ID: "late", Date: "2030-02-01", Time: "10:00", Status: models.SlotAvailable},
		models.Slot{ID: "early", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable},
	)
	sched := s.Scheduler()
	if _, err := sched.CreateBooking(ctx, newBooking("b-late"), models.SlotRef{ID: "late"}); err != nil {
		t.Fatal(err)
	}
	if _, err := sched.CreateBooking(ctx, newBooking("b-early"), models.SlotRef{ID: "early"}); err != nil {
		t.Fatal(err)
	}

	list, err := sched.ListByStudent(ctx, "student-1")
	if err != nil || len(list) != 2 || list[0].ID != "b-early" {
		t.Fatalf("expected chronological list, got %+v (%v)", list, err)
	}

	empty, err := sched.ListByStudent(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v (%v)", empty, err)
	}
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u := &models.User{ID: "u1", Name: "Sam", Email: "sam@uni.test", Role: models.RoleStudent}
	if err := s.Users().Create(ctx, u, nil); err != nil {
		t.Fatal(err)
	}
	err := s.Users().Create(ctx, &models.User{ID: "u2", Name: "Sam2", Email: "sam@uni.test"}, nil)
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := s.Users().GetByLogin(ctx, "Sam")
	if err != nil || got.ID != "u1" {
		t.Fatalf("expected login by name, got %+v (%v)", got, err)
	}
	if _, err := s.Users().GetByLogin(ctx, "nobody"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTutorRepo_SearchAndPrune(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTutor(t, s,
		models.Slot{ID: "old", Date: "2020-01-01", Time: "10:00", Status: models.SlotAvailable},
		models.Slot{ID: "new", Date: "2030-01-01", Time: "10:00", Status: models.SlotAvailable},
	)

	found, _ := s.Tutors().Search(ctx, models.TutorSearchCriteria{Module: "CS101", Query: "ad"})
	if len(found) != 1 {
		t.Fatalf("expected one match, got %d", len(found))
	}
	none, _ := s.Tutors().Search(ctx, models.TutorSearchCriteria{Module: "MA200"})
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", none)
	}

	changed, err := s.Tutors().PruneExpiredSlots(ctx, "2025-01-01")
	if err != nil || changed != 1 {
		t.Fatalf("expected one profile pruned, got %d (%v)", changed, err)
	}
	tutor, _ := s.Tutors().GetByUserID(ctx, "u-tutor")
	if len(tutor.Availability) != 1 || tutor.Availability[0].ID != "new" {
		t.Fatalf("unexpected availability after prune: %+v", tutor.Availability)
	}
}
