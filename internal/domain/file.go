package domain

import (
	"fmt"
	"strings"
	"time"
)

type FileStatus string

const (
	FileUploaded   FileStatus = "UPLOADED"
	FileProcessing FileStatus = "PROCESSING"
	FileReady      FileStatus = "READY"
	FileFailed     FileStatus = "FAILED"
)

// AllFileStatuses lists statuses in lifecycle order.
var AllFileStatuses = []FileStatus{FileUploaded, FileProcessing, FileReady, FileFailed}

// Field limits of a file record.
const (
	MaxFileNameLen    = 255
	MaxContentTypeLen = 100
	MaxStorageKeyLen  = 500
	MaxFileSize       = 10 << 30 // 10 GiB
)

// ParseFileStatus maps a status name to a FileStatus ignoring case and
// surrounding whitespace.
func ParseFileStatus(name string) (FileStatus, error) {
	s := FileStatus(strings.ToUpper(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, name)
	}
	return s, nil
}

func (s FileStatus) Valid() bool {
	switch s {
	case FileUploaded, FileProcessing, FileReady, FileFailed:
		return true
	}
	return false
}

func (s FileStatus) String() string { return string(s) }

type FileRecord struct {
	ID          string     `json:"id"`
	FileName    string     `json:"file_name"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	OwnerID     string     `json:"owner_id"`
	Status      FileStatus `json:"status"`
	StorageKey  string     `json:"storage_key"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int64      `json:"version"`
}

// FileStatistics counts records per status.
type FileStatistics struct {
	Total      int64 `json:"total"`
	Uploaded   int64 `json:"uploaded"`
	Processing int64 `json:"processing"`
	Ready      int64 `json:"ready"`
	Failed     int64 `json:"failed"`
}

// Add counts n records in status s.
func (st *FileStatistics) Add(s FileStatus, n int64) {
	st.Total += n
	switch s {
	case FileUploaded:
		st.Uploaded += n
	case FileProcessing:
		st.Processing += n
	case FileReady:
		st.Ready += n
	case FileFailed:
		st.Failed += n
	}
}
