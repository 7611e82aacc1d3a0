package github

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/utils"
)

const verifyRef = "HEAD"

// CommitReader is the read API the verifier depends on
type CommitReader interface {
	GetCommit(ctx context.Context, owner, name, ref, token string) (*Commit, error)
}

// VerificationResult records what the target HEAD looked like after a push
type VerificationResult struct {
	Success      bool      `json:"success"`
	SourceCommit string    `json:"sourceCommit"`
	TargetCommit string    `json:"targetCommit,omitempty"`
	CommitDate   time.Time `json:"commitDate,omitempty"`
}

// Verifier confirms a push landed by reading the target's HEAD back from GitHub
type Verifier struct {
	reader CommitReader
	logger *logrus.Logger
}

func NewVerifier(reader CommitReader, logger *logrus.Logger) *Verifier {
	return &Verifier{reader: reader, logger: logger}
}

// Verify succeeds only when the target's default branch HEAD equals sourceCommit.
// The returned result is non-nil whenever the target URL parsed.
func (v *Verifier) Verify(ctx context.Context, sourceCommit, targetURL, token string) (*VerificationResult, error) {
	owner, name, err := utils.ParseGitHubURL(targetURL)
	if err != nil {
		return nil, apperrors.NewNormalizationError("Invalid target repository URL", err)
	}

	result := &VerificationResult{SourceCommit: sourceCommit}
	logger := v.logger.WithFields(logrus.Fields{"owner": owner, "repo": name})
	logger.Info("Verifying push success")

	commit, err := v.reader.GetCommit(ctx, owner, name, verifyRef, token)
	if err != nil {
		logger.WithError(err).Error("Verification failed")
		return result, apperrors.NewVerificationError("Push verification failed", err)
	}

	result.TargetCommit = commit.SHA
	result.CommitDate = commit.AuthoredAt()
	result.Success = sourceCommit != "" && commit.SHA == sourceCommit

	logger.WithFields(logrus.Fields{
		"success":       result.Success,
		"source_commit": result.SourceCommit,
		"target_commit": result.TargetCommit,
	}).Info("Push verification result")

	if !result.Success {
		return result, apperrors.NewVerificationError("Push verification failed", nil)
	}

	return result, nil
}
