package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserAlreadyExists = errors.New("user already exists")

const DefaultSceneLimit = 10

type User struct {
	ID         int64
	Email      string
	Username   string
	Credits    int
	SceneLimit int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
