// Package minio lists bucket contents through the MinIO SDK.
//
// It is selected with `driver: minio` and serves S3-compatible endpoints
// (MinIO, Ceph RGW, ...) configured through host_base.
package minio

import (
	"context"
	"errors"
	"net/http"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yourusername/s3-file-exporter/errs"
	"github.com/yourusername/s3-file-exporter/types"
)

// DefaultMaxKeys is the page size sent when the config leaves it open
const DefaultMaxKeys = 1000

// Options configures the MinIO client
type Options struct {
	HostBase     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UseHTTPS     bool
	Region       string
}

// ListObjectsV2API is the subset of minio.Core used for listing
type ListObjectsV2API interface {
	ListObjectsV2(bucketName, objectPrefix, startAfter, continuationToken, delimiter string, maxkeys int) (miniogo.ListBucketV2Result, error)
}

// Driver is a MinIO implementation of types.Lister.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	core ListObjectsV2API
}

// New creates a Driver for the endpoint in opts
func New(opts Options) (*Driver, error) {
	endpoint := strings.TrimSuffix(opts.HostBase, "/")
	secure := opts.UseHTTPS
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}

	var creds *credentials.Credentials
	if opts.AccessKey != "" {
		creds = credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken)
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.FileAWSCredentials{},
		})
	}

	core, err := miniogo.NewCore(endpoint, &miniogo.Options{
		Creds:  creds,
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	return NewFromAPI(core), nil
}

// NewFromAPI wraps an existing listing implementation
func NewFromAPI(api ListObjectsV2API) *Driver {
	return &Driver{core: api}
}

// ListPage fetches a single ListObjectsV2 page.
// The SDK call takes no context, so cancellation is checked before the request only.
func (d *Driver) ListPage(ctx context.Context, req types.ListRequest) (types.Page, error) {
	if err := ctx.Err(); err != nil {
		return types.Page{}, mapError(err, "failed to list objects")
	}

	maxKeys := int(req.MaxKeys)
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	prefix := ""
	if req.HasPrefix {
		prefix = req.Prefix
	}

	result, err := d.core.ListObjectsV2(req.Bucket, prefix, "", req.ContinuationToken, "", maxKeys)
	if err != nil {
		return types.Page{}, mapError(err, "failed to list objects")
	}

	page := types.Page{
		Objects:   make([]types.StorageObject, 0, len(result.Contents)),
		Truncated: result.IsTruncated,
		NextToken: result.NextContinuationToken,
	}
	for _, obj := range result.Contents {
		page.Objects = append(page.Objects, types.StorageObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return page, nil
}

// mapError translates a MinIO SDK error into an *errs.Error
func mapError(err error, msg string) *errs.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case "InvalidBucketName", "InvalidArgument":
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case "RequestTimeout", "SlowDown":
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case http.StatusForbidden, http.StatusUnauthorized:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case http.StatusBadRequest:
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
