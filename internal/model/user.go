package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the read-only projection of an account used for owner joins.
type User struct {
	ID        string    `db:"id" bson:"_id" json:"id"`
	Username  string    `db:"username" bson:"username" json:"username"`
	FullName  string    `db:"full_name" bson:"fullName" json:"fullName"`
	Avatar    string    `db:"avatar" bson:"avatar" json:"avatar"`
	CreatedAt time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" bson:"updatedAt" json:"updatedAt"`
}

// Owner is the profile embedded in every view that references a user.
type Owner struct {
	ID       string `db:"id" bson:"_id" json:"id"`
	Username string `db:"username" bson:"username" json:"username"`
	FullName string `db:"full_name" bson:"fullName" json:"fullName"`
	Avatar   string `db:"avatar" bson:"avatar" json:"avatar"`
}

// Owner returns the join projection of the user.
func (u *User) Owner() Owner {
	return Owner{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// ValidateID reports ErrInvalidID unless id is a UUID in its canonical
// lower-case hyphenated form. Ownership checks compare ids as strings, so
// other spellings of the same UUID are rejected rather than normalized.
func ValidateID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return ErrInvalidID
	}
	return nil
}

// NewID returns a fresh time-ordered (v7) entity identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
