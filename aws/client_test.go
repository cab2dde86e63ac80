package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/s3-file-exporter/errs"
	"github.com/yourusername/s3-file-exporter/types"
)

type fakeAPI struct {
	inputs []*s3.ListObjectsV2Input
	output *s3.ListObjectsV2Output
	err    error
}

func (f *fakeAPI) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestListPage_FirstPageWithoutPrefix(t *testing.T) {
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeAPI{output: &s3.ListObjectsV2Output{
		Contents: []s3types.Object{
			{Key: aws.String("a.txt"), Size: aws.Int64(10), LastModified: aws.Time(modified)},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("tok-1"),
	}}

	page, err := NewFromAPI(api).ListPage(context.Background(), types.ListRequest{Bucket: "b"})
	require.NoError(t, err)

	require.Len(t, api.inputs, 1)
	assert.Equal(t, "b", aws.ToString(api.inputs[0].Bucket))
	assert.Nil(t, api.inputs[0].Prefix)
	assert.Nil(t, api.inputs[0].ContinuationToken)
	assert.Nil(t, api.inputs[0].MaxKeys)

	assert.True(t, page.Truncated)
	assert.Equal(t, "tok-1", page.NextToken)
	require.Len(t, page.Objects, 1)
	assert.Equal(t, types.StorageObject{Key: "a.txt", Size: 10, LastModified: modified}, page.Objects[0])
}

func TestListPage_ContinuationAndPrefix(t *testing.T) {
	api := &fakeAPI{output: &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}}

	page, err := NewFromAPI(api).ListPage(context.Background(), types.ListRequest{
		Bucket:            "b",
		Prefix:            "logs/",
		HasPrefix:         true,
		ContinuationToken: "tok-1",
		MaxKeys:           100,
	})
	require.NoError(t, err)

	in := api.inputs[0]
	assert.Equal(t, "logs/", aws.ToString(in.Prefix))
	assert.Equal(t, "tok-1", aws.ToString(in.ContinuationToken))
	assert.Equal(t, int32(100), aws.ToInt32(in.MaxKeys))
	assert.False(t, page.Truncated)
	assert.Empty(t, page.Objects)
}

func TestListPage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, errs.ErrKindNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, errs.ErrKindPermissionDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, errs.ErrKindTimeout},
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"transport", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromAPI(&fakeAPI{err: tt.err}).ListPage(context.Background(), types.ListRequest{Bucket: "b"})
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "", Endpoint("", true))
	assert.Equal(t, "https://s3.example.com", Endpoint("s3.example.com", true))
	assert.Equal(t, "http://minio:9000", Endpoint("minio:9000/", false))
	assert.Equal(t, "http://ceph.local", Endpoint("http://ceph.local/", true))
}
