package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const editMsgFile = "COMMIT_EDITMSG"

// ErrNoGitDir is returned for repositories without an on-disk git directory.
var ErrNoGitDir = errors.New("repository has no git directory")

// Repo implements Repository on top of go-git.
type Repo struct {
	repo *gogit.Repository
}

// Open opens the repository containing path, searching parent directories.
func Open(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	r, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return &Repo{repo: r}, nil
}

// NewRepo wraps an already opened repository.
func NewRepo(r *gogit.Repository) *Repo {
	return &Repo{repo: r}
}

func (r *Repo) resolve(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %s: %w", rev, err)
	}
	return *hash, nil
}

func (r *Repo) Range(ctx context.Context, from, to string) ([]Commit, error) {
	if to == "" {
		to = "HEAD"
	}
	toHash, err := r.resolve(to)
	if err != nil {
		return nil, err
	}

	exclude := make(map[plumbing.Hash]bool)
	if from != "" {
		fromHash, err := r.resolve(from)
		if err != nil {
			return nil, err
		}
		if err := r.walk(ctx, fromHash, func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		}); err != nil {
			return nil, err
		}
	}

	var commits []Commit
	err = r.walk(ctx, toHash, func(c *object.Commit) error {
		if !exclude[c.Hash] {
			commits = append(commits, toCommit(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (r *Repo) walk(ctx context.Context, from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return err
	}
	return nil
}

func (r *Repo) Last(ctx context.Context) (Commit, error) {
	if err := ctx.Err(); err != nil {
		return Commit{}, err
	}

	head, err := r.resolve("HEAD")
	if err != nil {
		return Commit{}, err
	}
	c, err := r.repo.CommitObject(head)
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit %s: %w", head, err)
	}
	return toCommit(c), nil
}

func (r *Repo) EditMsgPath() (string, error) {
	dir, err := r.GitDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, editMsgFile), nil
}

// GitDir returns the repository's .git directory.
func (r *Repo) GitDir() (string, error) {
	s, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", ErrNoGitDir
	}
	return s.Filesystem().Root(), nil
}

func toCommit(c *object.Commit) Commit {
	return Commit{
		Hash:    c.Hash.String(),
		Message: c.Message,
		Author:  c.Author.Name,
		When:    c.Author.When,
	}
}
