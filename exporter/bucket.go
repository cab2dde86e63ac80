package exporter

import (
	"context"

	"github.com/yourusername/s3-file-exporter/errs"
	"github.com/yourusername/s3-file-exporter/types"
)

// ListResult is the outcome of listing one folder.
// Err is nil only when every page succeeded and carried content.
type ListResult struct {
	Objects []types.StorageObject
	Pages   int
	Err     error
}

// Success reports whether the listing is definitive
func (r ListResult) Success() bool {
	return r.Err == nil
}

// ListFolder pages through the listing backend until it reports no more results.
// The first failing or empty page aborts the folder; objects gathered before it are dropped.
func ListFolder(ctx context.Context, lister types.Lister, req types.ListRequest) ListResult {
	var objects []types.StorageObject
	pages := 0
	req.ContinuationToken = ""

	for {
		page, err := lister.ListPage(ctx, req)
		if err != nil {
			return ListResult{Pages: pages, Err: err}
		}
		pages++

		if len(page.Objects) == 0 {
			return ListResult{Pages: pages, Err: errs.New(errs.ErrKindEmpty, "no content found")}
		}
		objects = append(objects, page.Objects...)

		if !page.Truncated {
			return ListResult{Objects: objects, Pages: pages}
		}

		if page.NextToken == "" || page.NextToken == req.ContinuationToken {
			return ListResult{Pages: pages, Err: errs.New(errs.ErrKindProtocol, "truncated listing without a new continuation token")}
		}
		req.ContinuationToken = page.NextToken
	}
}
