package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAvatar = "/images/default-avatar.png"

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Username       string
	HashedPassword string
	Avatar         string
	Bio            string
}

// Profile is the public view of a user with social counters
type Profile struct {
	User
	Followers int
	Following int
	Reviews   int
}
