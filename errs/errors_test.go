package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	err := Wrap(ErrKindConnectionFailed, "list objects", cause)
	assert.Equal(t, "[connection_failed] list objects: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := New(ErrKindEmpty, "no content")
	assert.Equal(t, "[empty] no content", bare.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrKind
	}{
		{"nil", nil, ErrKindUnknown},
		{"plain", errors.New("boom"), ErrKindUnknown},
		{"direct", New(ErrKindNotFound, "bucket"), ErrKindNotFound},
		{"wrapped", fmt.Errorf("page 2: %w", New(ErrKindTimeout, "slow down")), ErrKindTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrKindNotFound, "x")))
	assert.True(t, IsPermissionDenied(New(ErrKindPermissionDenied, "x")))
	assert.True(t, IsTimeout(New(ErrKindTimeout, "x")))
	assert.True(t, IsEmpty(New(ErrKindEmpty, "x")))
	assert.False(t, IsEmpty(New(ErrKindNotFound, "x")))
}
