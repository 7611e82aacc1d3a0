package mirror

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/fsys"
	"github.com/Kamar-Folarin/repo-mirror/internal/github"
	"github.com/Kamar-Folarin/repo-mirror/internal/models"
	"github.com/Kamar-Folarin/repo-mirror/internal/transport"
	"github.com/Kamar-Folarin/repo-mirror/internal/workspace"
)

const (
	sourceURL = "https://github.com/acme/widgets.git"
	targetURL = "https://github.com/acme/mirror.git"
	token     = "ghp_test"
	headSHA   = "0123456789abcdef0123456789abcdef01234567"
)

var (
	fixedNow   = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	authoredAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) GetRepository(ctx context.Context, id string) (*models.RepositoryRecord, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.RepositoryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTransport struct{ mock.Mock }

func (m *mockTransport) Clone(ctx context.Context, url string, dest billy.Filesystem, tok string, progress io.Writer) (*transport.CloneResult, error) {
	args := m.Called(ctx, url, dest, tok, progress)
	if r := args.Get(0); r != nil {
		return r.(*transport.CloneResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTransport) Push(ctx context.Context, dest billy.Filesystem, url, tok string, opts transport.PushOptions, progress io.Writer) (*transport.PushResult, error) {
	args := m.Called(ctx, dest, url, tok, opts, progress)
	if r := args.Get(0); r != nil {
		return r.(*transport.PushResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, sourceCommit, url, tok string) (*github.VerificationResult, error) {
	args := m.Called(ctx, sourceCommit, url, tok)
	if r := args.Get(0); r != nil {
		return r.(*github.VerificationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUpdater struct{ mock.Mock }

func (m *mockUpdater) Commit(ctx context.Context, targetID, sha string, authored, synced time.Time) error {
	return m.Called(ctx, targetID, sha, authored, synced).Error(0)
}

type stubCredentials struct {
	token string
	err   error
}

func (s stubCredentials) Token() (string, error) {
	return s.token, s.err
}

// spyWorkspaces counts calls against a real manager on an in-memory tree
type spyWorkspaces struct {
	*workspace.Manager

	mu         sync.Mutex
	created    []*workspace.Workspace
	cleanups   int
	cleanupErr error
}

func (s *spyWorkspaces) Create() (*workspace.Workspace, error) {
	ws, err := s.Manager.Create()
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws != nil {
		s.created = append(s.created, ws)
	}
	return ws, err
}

func (s *spyWorkspaces) Cleanup(ws *workspace.Workspace) error {
	s.mu.Lock()
	s.cleanups++
	s.mu.Unlock()

	if err := s.Manager.Cleanup(ws); err != nil {
		return err
	}
	return s.cleanupErr
}

type fixture struct {
	registry   *mockRegistry
	transport  *mockTransport
	verifier   *mockVerifier
	updater    *mockUpdater
	workspaces *spyWorkspaces
	creds      stubCredentials
}

func newFixture() *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &fixture{
		registry:   new(mockRegistry),
		transport:  new(mockTransport),
		verifier:   new(mockVerifier),
		updater:    new(mockUpdater),
		workspaces: &spyWorkspaces{Manager: workspace.NewManager(fsys.NewMemory(), "repo-mirror-", logger)},
		creds:      stubCredentials{token: token},
	}
}

func (f *fixture) service() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewService(f.registry, f.workspaces, f.transport, f.verifier, f.updater, f.creds, logger,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "inv-test" }),
	)
}

func (f *fixture) withRepositories(sourceRaw, targetRaw string) {
	f.registry.On("GetRepository", mock.Anything, "src").Return(&models.RepositoryRecord{ID: "src", Name: "widgets", URL: sourceRaw}, nil)
	f.registry.On("GetRepository", mock.Anything, "dst").Return(&models.RepositoryRecord{ID: "dst", Name: "mirror", URL: targetRaw}, nil)
}

func (f *fixture) withClone() {
	f.transport.On("Clone", mock.Anything, sourceURL, mock.Anything, token, mock.Anything).
		Return(&transport.CloneResult{Head: headSHA, Branch: "main"}, nil)
}

func (f *fixture) assertCleanedUpOnce(t *testing.T) {
	t.Helper()
	require.Len(t, f.workspaces.created, 1)
	assert.Equal(t, 1, f.workspaces.cleanups)

	ok, err := f.workspaces.Exists(f.workspaces.created[0])
	require.NoError(t, err)
	assert.False(t, ok, "workspace removed")
}

func pushRequest(pushType models.PushType) models.SyncRequest {
	return models.SyncRequest{Type: models.OperationPush, SourceRepoID: "src", TargetRepoID: "dst", PushType: pushType}
}

func messages(entries []models.LogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()
	f.withRepositories("github.com/acme/widgets", "https://github.com:443/acme/mirror/")
	f.withClone()
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, transport.PushOptions{Force: false}, mock.Anything).
		Return(&transport.PushResult{Success: true, Remote: targetURL}, nil)
	f.verifier.On("Verify", mock.Anything, headSHA, targetURL, token).
		Return(&github.VerificationResult{Success: true, SourceCommit: headSHA, TargetCommit: headSHA, CommitDate: authoredAt}, nil)
	f.updater.On("Commit", mock.Anything, "dst", headSHA, authoredAt, fixedNow).Return(nil).Once()

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	require.True(t, result.Success, "%+v", result.Details)
	assert.Empty(t, result.Error)
	assert.Nil(t, result.Details)
	assert.Equal(t, fixedNow, result.Timestamp)

	require.NotEmpty(t, result.Logs)
	assert.Equal(t, "Received operation request", result.Logs[0].Message)
	last := result.Logs[len(result.Logs)-1]
	assert.Equal(t, models.LogSuccess, last.Type)
	assert.Equal(t, "Push operation completed successfully", last.Message)
	assert.Subset(t, messages(result.Logs), []string{"Cloning source repository", "Pushing to target repository", "Verifying push success"})

	f.updater.AssertNumberOfCalls(t, "Commit", 1)
	f.assertCleanedUpOnce(t)
}

func TestExecute_TrailingProgressIsLogged(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.transport.On("Clone", mock.Anything, sourceURL, mock.Anything, token, mock.Anything).
		Run(func(args mock.Arguments) {
			io.WriteString(args.Get(4).(io.Writer), "Receiving objects: 100% (9/9)")
		}).
		Return(&transport.CloneResult{Head: headSHA, Branch: "main"}, nil)
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, mock.Anything, mock.Anything).
		Return(nil, stderrors.New("remote hung up"))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))
	require.False(t, result.Success)

	msgs := messages(result.Logs)
	progress := -1
	for i, e := range result.Logs {
		if e.Message == "Clone progress" {
			progress = i
			assert.Equal(t, map[string]string{"progress": "Receiving objects: 100% (9/9)"}, e.Data)
		}
	}
	require.GreaterOrEqual(t, progress, 0, "%v", msgs)
	assert.Equal(t, "Cloned source repository", msgs[progress+1])
	f.assertCleanedUpOnce(t)
}

func TestExecute_ForcedPushTypes(t *testing.T) {
	for _, pushType := range []models.PushType{models.PushForce, models.PushForceWithLease} {
		t.Run(string(pushType), func(t *testing.T) {
			f := newFixture()
			f.withRepositories(sourceURL, targetURL)
			f.withClone()
			f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, transport.PushOptions{Force: true}, mock.Anything).
				Return(&transport.PushResult{Success: true, Force: true}, nil)
			f.verifier.On("Verify", mock.Anything, headSHA, targetURL, token).
				Return(&github.VerificationResult{Success: true, SourceCommit: headSHA, TargetCommit: headSHA, CommitDate: authoredAt}, nil)
			f.updater.On("Commit", mock.Anything, "dst", headSHA, authoredAt, fixedNow).Return(nil)

			result := f.service().Execute(context.Background(), pushRequest(pushType))

			assert.True(t, result.Success)
			f.transport.AssertExpectations(t)
		})
	}
}

func TestExecute_PushFailure(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.withClone()
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, mock.Anything, mock.Anything).
		Return(&transport.PushResult{Success: false}, apperrors.NewTransportError("Failed to push to target repository", stderrors.New("permission denied")))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to push to target repository", result.Error)
	require.NotNil(t, result.Details)
	assert.Equal(t, "TransportError", result.Details.Name)
	assert.Contains(t, result.Details.Message, "permission denied")
	assert.NotEmpty(t, result.Details.Stack)
	assert.Equal(t, "Operation failed", result.Logs[len(result.Logs)-1].Message)

	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.updater.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertCleanedUpOnce(t)
}

func TestExecute_CloneFailure(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.transport.On("Clone", mock.Anything, sourceURL, mock.Anything, token, mock.Anything).
		Return(nil, stderrors.New("repository not found"))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "TransportError", result.Details.Name)
	assert.Equal(t, "Failed to clone source repository", result.Error)
	f.transport.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertCleanedUpOnce(t)
}

func TestExecute_VerificationMismatch(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.withClone()
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, mock.Anything, mock.Anything).
		Return(&transport.PushResult{Success: true}, nil)
	f.verifier.On("Verify", mock.Anything, headSHA, targetURL, token).
		Return(&github.VerificationResult{Success: false, SourceCommit: headSHA, TargetCommit: "deadbeef"},
			apperrors.NewVerificationError("Push verification failed", nil))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "Push verification failed", result.Error)
	assert.Equal(t, "VerificationError", result.Details.Name)
	assert.Contains(t, messages(result.Logs), "Push verification result")

	f.updater.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertCleanedUpOnce(t)
}

func TestExecute_RegistryWriteFailure(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.withClone()
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, mock.Anything, mock.Anything).
		Return(&transport.PushResult{Success: true}, nil)
	f.verifier.On("Verify", mock.Anything, headSHA, targetURL, token).
		Return(&github.VerificationResult{Success: true, SourceCommit: headSHA, TargetCommit: headSHA, CommitDate: authoredAt}, nil)
	f.updater.On("Commit", mock.Anything, "dst", headSHA, authoredAt, fixedNow).Return(stderrors.New("connection reset"))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "InternalError", result.Details.Name)
	assert.Equal(t, "Failed to update repository registry", result.Error)
	f.assertCleanedUpOnce(t)
}

func TestExecute_MissingToken(t *testing.T) {
	f := newFixture()
	f.creds = stubCredentials{err: apperrors.NewConfigurationError("GitHub token not configured", nil)}

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "GitHub token not configured", result.Error)
	assert.Equal(t, "ConfigurationError", result.Details.Name)
	assert.Empty(t, f.workspaces.created)
	assert.Zero(t, f.workspaces.cleanups)
	f.registry.AssertNotCalled(t, "GetRepository", mock.Anything, mock.Anything)
}

func TestExecute_RepositoryNotFound(t *testing.T) {
	f := newFixture()
	f.registry.On("GetRepository", mock.Anything, "src").Return(&models.RepositoryRecord{ID: "src", URL: sourceURL}, nil)
	f.registry.On("GetRepository", mock.Anything, "dst").Return(nil, apperrors.NewResourceNotFoundError("repository", "dst"))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "Repository not found", result.Error)
	assert.Equal(t, "NotFoundError", result.Details.Name)
	assert.Empty(t, f.workspaces.created)
}

func TestExecute_RegistryReadFailure(t *testing.T) {
	f := newFixture()
	f.registry.On("GetRepository", mock.Anything, "src").Return(nil, stderrors.New("connection refused"))

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "InternalError", result.Details.Name)
	assert.Empty(t, f.workspaces.created)
}

func TestExecute_InvalidPushType(t *testing.T) {
	f := newFixture()

	result := f.service().Execute(context.Background(), pushRequest("mirror"))

	assert.False(t, result.Success)
	assert.Equal(t, "ValidationError", result.Details.Name)
	assert.Empty(t, f.workspaces.created)
}

func TestExecute_NonPushTypeIsNoop(t *testing.T) {
	f := newFixture()

	result := f.service().Execute(context.Background(), models.SyncRequest{Type: "pull", SourceRepoID: "src", TargetRepoID: "dst"})

	assert.True(t, result.Success)
	assert.Empty(t, f.workspaces.created)
	f.registry.AssertNotCalled(t, "GetRepository", mock.Anything, mock.Anything)
}

func TestExecute_NonGitHubTarget(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, "https://gitlab.com/acme/mirror")

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "NormalizationError", result.Details.Name)
	f.transport.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertCleanedUpOnce(t)
}

func TestExecute_CleanupFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.workspaces.cleanupErr = stderrors.New("device busy")
	f.withRepositories(sourceURL, targetURL)
	f.withClone()
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, mock.Anything, mock.Anything).
		Return(&transport.PushResult{Success: true, UpToDate: true}, nil)
	f.verifier.On("Verify", mock.Anything, headSHA, targetURL, token).
		Return(&github.VerificationResult{Success: true, SourceCommit: headSHA, TargetCommit: headSHA, CommitDate: authoredAt}, nil)
	f.updater.On("Commit", mock.Anything, "dst", headSHA, authoredAt, fixedNow).Return(nil)

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.True(t, result.Success)
	assert.Equal(t, 1, f.workspaces.cleanups)

	var cleanupEntry *models.LogEntry
	for i := range result.Logs {
		if result.Logs[i].Message == "Failed to clean up workspace" {
			cleanupEntry = &result.Logs[i]
		}
	}
	require.NotNil(t, cleanupEntry)
	assert.Equal(t, models.LogError, cleanupEntry.Type)
}

func TestExecute_PanicIsContained(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.transport.On("Clone", mock.Anything, sourceURL, mock.Anything, token, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") }).
		Return(nil, nil)

	result := f.service().Execute(context.Background(), pushRequest(models.PushNormal))

	assert.False(t, result.Success)
	assert.Equal(t, "InternalError", result.Details.Name)
	assert.Contains(t, result.Error, "boom")
	f.assertCleanedUpOnce(t)
}

func TestExecute_ConcurrentInvocationsAreIsolated(t *testing.T) {
	f := newFixture()
	f.withRepositories(sourceURL, targetURL)
	f.withClone()
	f.transport.On("Push", mock.Anything, mock.Anything, targetURL, token, mock.Anything, mock.Anything).
		Return(&transport.PushResult{Success: true}, nil)
	f.verifier.On("Verify", mock.Anything, headSHA, targetURL, token).
		Return(&github.VerificationResult{Success: true, SourceCommit: headSHA, TargetCommit: headSHA, CommitDate: authoredAt}, nil)
	f.updater.On("Commit", mock.Anything, "dst", headSHA, authoredAt, fixedNow).Return(nil)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	f.workspaces = &spyWorkspaces{Manager: workspace.NewManager(fsys.NewOS(t.TempDir()), "repo-mirror-", logger)}
	svc := f.service()

	const n = 8
	results := make([]*models.SyncResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Execute(context.Background(), pushRequest(models.PushNormal))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.Success)
		assert.Equal(t, results[0].Logs[0].Message, r.Logs[0].Message)
	}

	seen := map[string]bool{}
	for _, ws := range f.workspaces.created {
		assert.False(t, seen[ws.Name], "workspace names are unique")
		seen[ws.Name] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, f.workspaces.cleanups)
}
