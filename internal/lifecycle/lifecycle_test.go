package lifecycle

import (
	"errors"
	"testing"

	"filemeta/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestIsLegal_AllPairs(t *testing.T) {
	want := map[[2]domain.FileStatus]bool{
		{domain.FileUploaded, domain.FileProcessing}: true,
		{domain.FileProcessing, domain.FileReady}:    true,
		{domain.FileProcessing, domain.FileFailed}:   true,
	}

	legalCount := 0
	for _, from := range domain.AllFileStatuses {
		for _, to := range domain.AllFileStatuses {
			got := IsLegal(from, to)
			assert.Equal(t, want[[2]domain.FileStatus{from, to}], got, "%s -> %s", from, to)
			if got {
				legalCount++
			}
		}
	}
	assert.Equal(t, 3, legalCount)
}

func TestValidate_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []domain.FileStatus{domain.FileReady, domain.FileFailed} {
		for _, to := range domain.AllFileStatuses {
			err := Validate(from, to)
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition for %s -> %s, got %v", from, to, err)
			}
		}
	}
}

func TestValidate_SelfTransitionRejected(t *testing.T) {
	err := Validate(domain.FileUploaded, domain.FileUploaded)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestValidate_LegalMove(t *testing.T) {
	assert.NoError(t, Validate(domain.FileUploaded, domain.FileProcessing))
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []domain.FileStatus{domain.FileProcessing}, Allowed(domain.FileUploaded))
	assert.Equal(t, []domain.FileStatus{domain.FileReady, domain.FileFailed}, Allowed(domain.FileProcessing))
	assert.Empty(t, Allowed(domain.FileReady))
	assert.Empty(t, Allowed(domain.FileFailed))
}
