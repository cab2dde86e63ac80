package aws

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/yourusername/s3-file-exporter/errs"
	"github.com/yourusername/s3-file-exporter/types"
)

// DefaultRegion is used when neither the config nor the environment name one
const DefaultRegion = "us-east-1"

// Options configures the S3 client
type Options struct {
	Region         string
	AccessKey      string
	SecretKey      string
	SessionToken   string
	HostBase       string
	UseHTTPS       bool
	ForcePathStyle bool
}

// ListObjectsV2API is the subset of the S3 client used for listing
type ListObjectsV2API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Client wraps the AWS S3 client with configuration
type Client struct {
	S3 ListObjectsV2API
}

// NewClient creates a new AWS S3 client from the exporter options
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error

	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	// Custom endpoints (Ceph, MinIO, Wasabi, ...) usually have no region of their own
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	endpoint := Endpoint(opts.HostBase, opts.UseHTTPS)
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
		if opts.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return NewFromAPI(s3Client), nil
}

// NewFromAPI wraps an existing ListObjectsV2 implementation
func NewFromAPI(api ListObjectsV2API) *Client {
	return &Client{S3: api}
}

// Endpoint turns a host_base value into a base endpoint URL.
// An empty host yields an empty endpoint, which selects the AWS default.
func Endpoint(hostBase string, useHTTPS bool) string {
	hostBase = strings.TrimSpace(hostBase)
	if hostBase == "" {
		return ""
	}
	if strings.Contains(hostBase, "://") {
		return strings.TrimSuffix(hostBase, "/")
	}
	scheme := "https"
	if !useHTTPS {
		scheme = "http"
	}
	return scheme + "://" + strings.TrimSuffix(hostBase, "/")
}

// ListPage fetches a single ListObjectsV2 page
func (c *Client) ListPage(ctx context.Context, req types.ListRequest) (types.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(req.Bucket),
	}
	if req.HasPrefix {
		input.Prefix = aws.String(req.Prefix)
	}
	if req.ContinuationToken != "" {
		input.ContinuationToken = aws.String(req.ContinuationToken)
	}
	if req.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(req.MaxKeys)
	}

	result, err := c.S3.ListObjectsV2(ctx, input)
	if err != nil {
		return types.Page{}, mapError(err, "failed to list objects")
	}

	page := types.Page{
		Objects:   make([]types.StorageObject, 0, len(result.Contents)),
		Truncated: aws.ToBool(result.IsTruncated),
		NextToken: aws.ToString(result.NextContinuationToken),
	}
	for _, obj := range result.Contents {
		page.Objects = append(page.Objects, types.StorageObject{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}

	return page, nil
}

// mapError translates an AWS SDK error into an *errs.Error
func mapError(err error, msg string) *errs.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case "InvalidBucketName", "InvalidArgument":
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case "RequestTimeout", "SlowDown", "RequestTimeTooSkewed":
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
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
