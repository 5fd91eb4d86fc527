// Package lifecycle holds the state machine of a file record's processing
// status. UPLOADED is initial; READY and FAILED are terminal.
package lifecycle

import (
	"fmt"

	"filemeta/internal/domain"
)

type transition struct {
	from domain.FileStatus
	to   domain.FileStatus
}

var legal = map[transition]bool{
	{domain.FileUploaded, domain.FileProcessing}: true,
	{domain.FileProcessing, domain.FileReady}:    true,
	{domain.FileProcessing, domain.FileFailed}:   true,
}

// IsLegal reports whether a record in status from may move to status to.
func IsLegal(from, to domain.FileStatus) bool {
	return legal[transition{from, to}]
}

// Validate returns domain.ErrInvalidTransition when IsLegal is false.
func Validate(from, to domain.FileStatus) error {
	if IsLegal(from, to) {
		return nil
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s is terminal, cannot move to %s", domain.ErrInvalidTransition, from, to)
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s domain.FileStatus) bool {
	return s == domain.FileReady || s == domain.FileFailed
}

// Allowed returns the statuses reachable from s in one step.
func Allowed(from domain.FileStatus) []domain.FileStatus {
	var next []domain.FileStatus
	for _, to := range domain.AllFileStatuses {
		if IsLegal(from, to) {
			next = append(next, to)
		}
	}
	return next
}
