// Package memory is an in-process implementation of the repositories, used
// with DB_DRIVER=memory and by the package tests. One mutex guards all
// collections, so every lifecycle operation is a single critical section.
package memory

import (
	"slices"
	"sync"

	"studybuddy/models"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	tutors   map[string]*models.Tutor
	bookings map[string]*models.Booking

	// insertion order, so listings are deterministic
	bookingOrder []string
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		tutors:   make(map[string]*models.Tutor),
		bookings: make(map[string]*models.Booking),
	}
}

// Users, Tutors and Scheduler expose the store through the repository interfaces.
func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s}
}

func (s *Store) Tutors() *TutorRepo {
	return &TutorRepo{s: s}
}

func (s *Store) Scheduler() *SchedulerRepo {
	return &SchedulerRepo{s: s}
}

func cloneTutor(t *models.Tutor) *models.Tutor {
	c := *t
	c.Modules = slices.Clone(t.Modules)
	c.Topics = slices.Clone(t.Topics)
	c.Availability = slices.Clone(t.Availability)
	return &c
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}
