package mirror

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-mirror/internal/credentials"
	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/github"
	"github.com/Kamar-Folarin/repo-mirror/internal/models"
	"github.com/Kamar-Folarin/repo-mirror/internal/synclog"
	"github.com/Kamar-Folarin/repo-mirror/internal/transport"
	"github.com/Kamar-Folarin/repo-mirror/internal/utils"
	"github.com/Kamar-Folarin/repo-mirror/internal/workspace"
)

// Registry looks up repository rows by id
type Registry interface {
	GetRepository(ctx context.Context, id string) (*models.RepositoryRecord, error)
}

// Workspaces allocates and removes scratch directories
type Workspaces interface {
	Create() (*workspace.Workspace, error)
	Cleanup(ws *workspace.Workspace) error
}

// Transport clones and pushes git repositories
type Transport interface {
	Clone(ctx context.Context, sourceURL string, dest billy.Filesystem, token string, progress io.Writer) (*transport.CloneResult, error)
	Push(ctx context.Context, dest billy.Filesystem, targetURL, token string, opts transport.PushOptions, progress io.Writer) (*transport.PushResult, error)
}

// Verifier confirms the target advanced to the pushed commit
type Verifier interface {
	Verify(ctx context.Context, sourceCommit, targetURL, token string) (*github.VerificationResult, error)
}

// Updater records a verified sync
type Updater interface {
	Commit(ctx context.Context, targetID, sha string, authoredAt, syncedAt time.Time) error
}

// Service runs push syncs. It holds no per-invocation state and is safe for concurrent use.
type Service struct {
	registry    Registry
	workspaces  Workspaces
	transport   Transport
	verifier    Verifier
	updater     Updater
	credentials credentials.Provider
	logger      *logrus.Logger

	now   synclog.Clock
	newID func() string
}

type Option func(*Service)

// WithClock sets the clock used for log timestamps and last_sync
func WithClock(now synclog.Clock) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator sets the invocation id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(
	registry Registry,
	workspaces Workspaces,
	transport Transport,
	verifier Verifier,
	updater Updater,
	creds credentials.Provider,
	logger *logrus.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		registry:    registry,
		workspaces:  workspaces,
		transport:   transport,
		verifier:    verifier,
		updater:     updater,
		credentials: creds,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Execute runs one request to completion. Every failure, including a panic in a
// collaborator, comes back as a result with Success false; the error is never
// returned to the caller.
func (s *Service) Execute(ctx context.Context, req models.SyncRequest) (result *models.SyncResult) {
	log := synclog.NewCollector(s.logger, s.newID(), s.now)

	defer func() {
		if r := recover(); r != nil {
			result = s.failure(log, apperrors.NewInternalError(fmt.Sprintf("panic: %v", r), nil))
		}
	}()

	if err := s.run(ctx, req, log); err != nil {
		return s.failure(log, err)
	}

	return &models.SyncResult{
		Success:   true,
		Logs:      log.Entries(),
		Timestamp: s.now().UTC(),
	}
}

func (s *Service) run(ctx context.Context, req models.SyncRequest, log *synclog.Collector) error {
	log.Info("Received operation request", req)

	token, err := s.credentials.Token()
	if err != nil {
		log.Error("GitHub token not found", nil)
		return err
	}

	if req.Type != models.OperationPush {
		log.Info("Operation type not handled, nothing to do", map[string]string{"type": string(req.Type)})
		return nil
	}

	if !req.PushType.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid push type %q", req.PushType), nil)
	}

	log.Info("Starting Git push operation", map[string]string{
		"sourceRepoId": req.SourceRepoID,
		"targetRepoId": req.TargetRepoID,
		"pushType":     string(req.PushType),
	})

	source, target, err := s.lookup(ctx, req, log)
	if err != nil {
		return err
	}

	ws, err := s.workspaces.Create()
	if err != nil {
		return apperrors.NewInternalError("Failed to create workspace", err)
	}
	defer s.cleanup(ws, log)

	return s.push(ctx, req, source, target, ws, token, log)
}

func (s *Service) lookup(ctx context.Context, req models.SyncRequest, log *synclog.Collector) (source, target *models.RepositoryRecord, err error) {
	source, err = s.registry.GetRepository(ctx, req.SourceRepoID)
	if err == nil {
		target, err = s.registry.GetRepository(ctx, req.TargetRepoID)
	}
	if err == nil {
		return source, target, nil
	}

	var notFound *apperrors.NotFoundError
	if stderrors.As(err, &notFound) {
		log.Error("Repository not found", map[string]string{
			"sourceRepoId": req.SourceRepoID,
			"targetRepoId": req.TargetRepoID,
		})
		return nil, nil, apperrors.NewNotFoundError("Repository not found", err)
	}

	return nil, nil, apperrors.NewInternalError("Failed to load repositories", err)
}

func (s *Service) push(
	ctx context.Context,
	req models.SyncRequest,
	source, target *models.RepositoryRecord,
	ws *workspace.Workspace,
	token string,
	log *synclog.Collector,
) error {
	sourceURL, err := canonicalURL(source.URL)
	if err != nil {
		return apperrors.NewNormalizationError("Invalid source repository URL", err)
	}
	targetURL, err := canonicalURL(target.URL)
	if err != nil {
		return apperrors.NewNormalizationError("Invalid target repository URL", err)
	}

	log.Info("Cloning source repository", map[string]string{"url": sourceURL})
	cloneProgress := log.Progress("Clone progress")
	clone, err := s.transport.Clone(ctx, sourceURL, ws.Source, token, cloneProgress)
	cloneProgress.Flush()
	if err != nil {
		return asType(err, apperrors.ErrTransport, "Failed to clone source repository")
	}
	log.Info("Cloned source repository", clone)

	log.Info("Pushing to target repository", map[string]string{"url": targetURL})
	pushProgress := log.Progress("Push progress")
	pushed, err := s.transport.Push(ctx, ws.Source, targetURL, token, transport.PushOptionsFor(req.PushType), pushProgress)
	pushProgress.Flush()
	if err != nil || pushed == nil || !pushed.Success {
		log.Error("Push operation failed", pushed)
		return apperrors.NewTransportError("Failed to push to target repository", rootCause(err))
	}
	log.Info("Pushed to target repository", pushed)

	log.Info("Verifying push success", nil)
	verified, err := s.verifier.Verify(ctx, clone.Head, targetURL, token)
	if verified != nil {
		log.Info("Push verification result", verified)
	}
	if err != nil {
		return asType(err, apperrors.ErrVerification, "Push verification failed")
	}

	if err := s.updater.Commit(ctx, target.ID, verified.TargetCommit, verified.CommitDate, s.now()); err != nil {
		return apperrors.NewInternalError("Failed to update repository registry", err)
	}

	log.Success("Push operation completed successfully", nil)
	return nil
}

func (s *Service) cleanup(ws *workspace.Workspace, log *synclog.Collector) {
	if err := s.workspaces.Cleanup(ws); err != nil {
		cerr := apperrors.NewCleanupError("Failed to clean up workspace", err)
		log.Error("Failed to clean up workspace", map[string]string{
			"name":  cerr.Name(),
			"path":  ws.Path,
			"error": err.Error(),
		})
	}
}

func (s *Service) failure(log *synclog.Collector, err error) *models.SyncResult {
	summary := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		summary = appErr.Message
	}

	details := DescribeError(err)
	log.Error("Operation failed", map[string]string{"name": details.Name, "message": details.Message})

	return &models.SyncResult{
		Success:   false,
		Logs:      log.Entries(),
		Error:     summary,
		Details:   details,
		Timestamp: s.now().UTC(),
	}
}

// DescribeError converts any error into the name, message and stack reported to clients
func DescribeError(err error) *models.ErrorDetails {
	if appErr, ok := apperrors.As(err); ok {
		message := appErr.Message
		if appErr.Cause != nil {
			message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return &models.ErrorDetails{
			Name:    appErr.Name(),
			Message: message,
			Stack:   appErr.Stack(),
		}
	}

	return &models.ErrorDetails{
		Name:    "Error",
		Message: err.Error(),
		Stack:   string(goerrors.Wrap(err, 1).Stack()),
	}
}

// rootCause strips a taxonomy wrapper so it is not reported twice
func rootCause(err error) error {
	if appErr, ok := apperrors.As(err); ok && appErr.Cause != nil {
		return appErr.Cause
	}
	return err
}

// asType keeps err when it already carries a taxonomy type, otherwise wraps it as errType
func asType(err error, errType apperrors.ErrorType, message string) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.New(errType, message, err)
}

func canonicalURL(raw string) (string, error) {
	normalized, err := utils.NormalizeRepoURL(raw)
	if err != nil {
		return "", err
	}
	if _, _, err := utils.ParseGitHubURL(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
