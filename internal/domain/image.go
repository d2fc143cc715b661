package domain

import (
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("invalid generation input")
var ErrProfaneInput = errors.New("input contains inappropriate language")
var ErrDelegateFailure = errors.New("generation backend request failed")

// UserImage is one generated comic saved to a user's history.
type UserImage struct {
	ID        int64
	UserID    int64
	ImageURL  string
	CreatedAt time.Time
}
