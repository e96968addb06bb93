// Package git reads commit messages from Git repositories.
package git

import (
	"context"
	"time"
)

// Repository defines the Git operations the linter needs.
// This abstraction allows for testing with in-memory repositories.
type Repository interface {
	// Range returns the commits reachable from to but not from from,
	// newest first. An empty from walks the whole history.
	Range(ctx context.Context, from, to string) ([]Commit, error)

	// Last returns the commit HEAD points at.
	Last(ctx context.Context) (Commit, error)

	// EditMsgPath returns the path git writes the message being edited to.
	EditMsgPath() (string, error)
}

// Commit is a commit message with enough metadata to report on it.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	When    time.Time `json:"when"`
}
