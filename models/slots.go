package models

const (
	SlotAvailable = "Available"
	SlotBooked    = "Booked"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is one bookable entry in a tutor's availability list.
type Slot struct {
	ID     string `bson:"id" json:"id"`
	Date   string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time   string `bson:"time" json:"time"` // "HH:MM"
	Status string `bson:"status" json:"status"`
}

// SlotRef identifies a slot either by id or, when ID is empty, by date and time.
type SlotRef struct {
	ID   string
	Date string
	Time string
}
