package domain

import "errors"

var (
	ErrInvalidUsername = errors.New("username is required and must be a string")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
)

// User is the owner of a movie list. It is identified only by a self-reported
// username; there is no password or session behind it.
type User struct {
	ID       int64  `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
}
