package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/cache"
	gittransport "github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

const (
	remoteName   = "origin"
	tokenUser    = "x-access-token"
	mirrorRefs   = config.RefSpec("refs/heads/*:refs/heads/*")
	cloneDepth   = 1
	gitDirectory = ".git"
)

// Indirections over go-git so tests can observe options without a remote.
var (
	cloneRepository = func(ctx context.Context, s storage.Storer, worktree billy.Filesystem, o *git.CloneOptions) (*git.Repository, error) {
		return git.CloneContext(ctx, s, worktree, o)
	}
	pushRepository = func(ctx context.Context, r *git.Repository, o *git.PushOptions) error {
		return r.PushContext(ctx, o)
	}
)

// CloneResult describes the local checkout after a clone
type CloneResult struct {
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// PushOptions controls how the target refs are updated
type PushOptions struct {
	Force bool
}

// PushResult describes a push attempt
type PushResult struct {
	Success  bool   `json:"success"`
	UpToDate bool   `json:"upToDate"`
	Remote   string `json:"remote"`
	Force    bool   `json:"force"`
}

// PushOptionsFor maps a request push type onto push options. force-with-lease
// is treated as force; no lease is checked against the remote.
func PushOptionsFor(pushType models.PushType) PushOptions {
	return PushOptions{Force: pushType.Forced()}
}

// Client performs authenticated git operations against remote repositories
type Client struct {
	logger *logrus.Logger
}

func NewClient(logger *logrus.Logger) *Client {
	return &Client{logger: logger}
}

func auth(token string) gittransport.AuthMethod {
	return &http.BasicAuth{Username: tokenUser, Password: token}
}

func storerFor(dest billy.Filesystem) (storage.Storer, error) {
	dot, err := dest.Chroot(gitDirectory)
	if err != nil {
		return nil, err
	}
	return filesystem.NewStorage(dot, cache.NewObjectLRUDefault()), nil
}

// Clone makes a depth-1 single-branch checkout of the default branch of
// sourceURL into dest. progress receives the remote's progress output and may be nil.
func (c *Client) Clone(ctx context.Context, sourceURL string, dest billy.Filesystem, token string, progress io.Writer) (*CloneResult, error) {
	log := c.logger.WithField("url", sourceURL)
	log.Info("Starting clone operation")

	s, err := storerFor(dest)
	if err != nil {
		return nil, apperrors.NewTransportError("Failed to prepare clone destination", err)
	}

	repo, err := cloneRepository(ctx, s, dest, &git.CloneOptions{
		URL:          sourceURL,
		Auth:         auth(token),
		RemoteName:   remoteName,
		Depth:        cloneDepth,
		SingleBranch: true,
		Tags:         git.NoTags,
		Progress:     progress,
	})
	if err != nil {
		log.WithError(err).Error("Clone operation failed")
		return nil, apperrors.NewTransportError("Failed to clone source repository", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, apperrors.NewTransportError("Failed to resolve cloned HEAD", err)
	}

	result := &CloneResult{
		Head:   head.Hash().String(),
		Branch: head.Name().Short(),
	}
	log.WithFields(logrus.Fields{"head": result.Head, "branch": result.Branch}).Info("Clone operation completed successfully")
	return result, nil
}

// Push sends every local branch in dest to targetURL under the same names
func (c *Client) Push(ctx context.Context, dest billy.Filesystem, targetURL, token string, opts PushOptions, progress io.Writer) (*PushResult, error) {
	log := c.logger.WithFields(logrus.Fields{"url": targetURL, "force": opts.Force})
	log.Info("Starting push operation")

	result := &PushResult{Remote: targetURL, Force: opts.Force}

	s, err := storerFor(dest)
	if err != nil {
		return result, apperrors.NewTransportError("Failed to push to target repository", err)
	}

	repo, err := git.Open(s, dest)
	if err != nil {
		return result, apperrors.NewTransportError("Failed to push to target repository", fmt.Errorf("open local clone: %w", err))
	}

	err = pushRepository(ctx, repo, &git.PushOptions{
		RemoteName: remoteName,
		RemoteURL:  targetURL,
		RefSpecs:   []config.RefSpec{mirrorRefs},
		Auth:       auth(token),
		Force:      opts.Force,
		Progress:   progress,
	})
	switch {
	case err == nil:
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		result.UpToDate = true
	default:
		log.WithError(err).Error("Push operation failed")
		return result, apperrors.NewTransportError("Failed to push to target repository", err)
	}

	result.Success = true
	log.WithField("up_to_date", result.UpToDate).Info("Push operation completed successfully")
	return result, nil
}
