package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrPatternControl, "control characters in pattern")
	assert.Equal(t, "[PATTERN_CONTROL_CHARS] control characters in pattern", err.Error())
	assert.Equal(t, ErrPatternControl, err.Code)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrLogRead, "failed to read log %s", "build.log")
	assert.Equal(t, "[LOG_READ] failed to read log build.log", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, ErrStoreRead, "failed to read exemption store")

	assert.Equal(t, "[STORE_READ] failed to read exemption store: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrStoreRead, "nothing"))
	assert.Nil(t, Wrapf(nil, ErrStoreRead, "nothing %d", 1))
}

func TestIsByCode(t *testing.T) {
	err := New(ErrAmbiguousMatch, "two exemptions match")
	target := New(ErrAmbiguousMatch, "different message")

	assert.True(t, stderrors.Is(err, target))
	assert.False(t, stderrors.Is(err, New(ErrConfigLoad, "other code")))
}

func TestIsErrorCodeThroughWrapping(t *testing.T) {
	inner := New(ErrPatternInvalid, "bad regex")
	outer := fmt.Errorf("while classifying: %w", inner)

	assert.True(t, IsErrorCode(outer, ErrPatternInvalid))
	assert.False(t, IsErrorCode(outer, ErrPatternControl))
	assert.Equal(t, ErrPatternInvalid, GetErrorCode(outer))
}

func TestGetErrorCodeUnknown(t *testing.T) {
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain error")))
}

func TestDetails(t *testing.T) {
	err := New(ErrAmbiguousMatch, "two exemptions match").
		WithDetail("line", "foobar").
		WithDetails(map[string]interface{}{"patterns": []string{"foo.*", "foobar"}})

	details := GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "foobar", details["line"])
	assert.Equal(t, []string{"foo.*", "foobar"}, details["patterns"])

	assert.Nil(t, GetErrorDetails(fmt.Errorf("plain error")))
}
