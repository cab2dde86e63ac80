package types

import (
	"context"
	"time"
)

// StorageObject contains the listing metadata for a single object
type StorageObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListRequest describes one page request against the listing backend
type ListRequest struct {
	Bucket            string
	Prefix            string
	HasPrefix         bool
	ContinuationToken string
	MaxKeys           int32
}

// Page is a single page of a bucket listing
type Page struct {
	Objects   []StorageObject
	Truncated bool
	NextToken string
}

// Lister lists one page of objects under a bucket and optional prefix.
// Implementations must not retry internally beyond what their SDK does.
type Lister interface {
	ListPage(ctx context.Context, req ListRequest) (Page, error)
}

// FolderResult is the aggregate for one folder/pattern pair within a single collection pass
type FolderResult struct {
	Folder  string
	Prefix  string
	Pattern string
	Objects []StorageObject
	Oldest  StorageObject
	Newest  StorageObject
	Count   int
}

// FolderStatus reports whether the listing of a folder produced a definitive result
type FolderStatus struct {
	Folder  string
	Prefix  string
	Success bool
	Results []FolderResult
}

// Timestamp converts a modification time to epoch seconds.
// It stays valid outside the range representable in int64 nanoseconds.
func Timestamp(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
