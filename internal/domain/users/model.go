package users

import (
	"time"

	"github.com/google/uuid"
)

// User mapea el UUID que genera el cliente a un id interno.
type User struct {
	ID        int64
	ClientID  uuid.UUID
	CreatedAt time.Time
}
