package models

import "time"

const (
	RoleStudent = "Student"
	RoleTutor   = "Tutor"
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `bson:"id" json:"_id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTutor
}
