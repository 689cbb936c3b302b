// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. The password is stored only as a bcrypt hash.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	Name      string
	Email     string
	PwdHash   []byte // bcrypt(password)
	CreatedAt time.Time
}

// Content is a single bookmarked link owned by one user.
type Content struct {
	ID     uuid.UUID
	Link   string
	Type   string
	Title  string
	UserID uuid.UUID // FK -> users.id
	// Username of the owner; filled by read queries, ignored on insert.
	Username  string
	Tags      []string // tag ids; always empty at creation
	CreatedAt time.Time
}

// ShareLink publishes a read-only view of a user's content under Hash.
type ShareLink struct {
	UserID    uuid.UUID // unique: one link per user
	Hash      string    // unique
	CreatedAt time.Time
}

// SharedBrain is the public projection resolved from a share link.
type SharedBrain struct {
	Username string
	Content  []Content
}
