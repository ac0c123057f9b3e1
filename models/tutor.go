package models

import "time"

const DefaultTutorBio = "New tutor ready to help!"

// Tutor is the public profile of a user with the Tutor role. It owns its
// availability list exclusively.
type Tutor struct {
	ID           string    `bson:"id" json:"_id"`
	UserID       string    `bson:"userId" json:"userId"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Modules      []string  `bson:"modules" json:"modules"`
	Topics       []string  `bson:"topics" json:"topics"`
	HourlyRate   float64   `bson:"hourlyRate" json:"hourlyRate"`
	Bio          string    `bson:"bio" json:"bio"`
	RatingAvg    float64   `bson:"ratingAvg" json:"ratingAvg"`
	RatingCount  int       `bson:"ratingCount" json:"ratingCount"`
	Availability []Slot    `bson:"availability" json:"availability"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewTutorProfile builds the default profile created at registration.
func NewTutorProfile(id string, user *User) *Tutor {
	return &Tutor{
		ID:           id,
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Modules:      []string{},
		Topics:       []string{},
		Bio:          DefaultTutorBio,
		RatingAvg:    5.0,
		Availability: []Slot{},
		UpdatedAt:    time.Now(),
	}
}

// TutorUpdate is a partial profile update; nil fields are left untouched.
type TutorUpdate struct {
	Name         *string   `json:"name,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Modules      *[]string `json:"modules,omitempty"`
	Topics       *[]string `json:"topics,omitempty"`
	HourlyRate   *float64  `json:"hourlyRate,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Availability *[]Slot   `json:"availability,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u TutorUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Modules == nil && u.Topics == nil &&
		u.HourlyRate == nil && u.Bio == nil && u.Availability == nil
}

// Apply copies every non-nil field onto t.
func (u TutorUpdate) Apply(t *Tutor) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Email != nil {
		t.Email = *u.Email
	}
	if u.Modules != nil {
		t.Modules = *u.Modules
	}
	if u.Topics != nil {
		t.Topics = *u.Topics
	}
	if u.HourlyRate != nil {
		t.HourlyRate = *u.HourlyRate
	}
	if u.Bio != nil {
		t.Bio = *u.Bio
	}
	if u.Availability != nil {
		t.Availability = *u.Availability
	}
}

// TutorSearchCriteria narrows the tutor listing. Empty fields match everything.
type TutorSearchCriteria struct {
	Module string // exact module code
	Query  string // case-insensitive substring of the name or of any topic
}
