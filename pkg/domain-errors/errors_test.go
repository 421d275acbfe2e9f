package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCodeThroughWrapping(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(base, CodeUnavailable, "failed to load poll")
	wrapped := fmt.Errorf("cast vote: %w", err)

	assert.True(t, HasCode(wrapped, CodeUnavailable))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "failed to load poll: connection reset", err.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeDuplicateVote, CodeOf(New(CodeDuplicateVote, "already voted")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:         http.StatusNotFound,
		CodePollClosed:       http.StatusBadRequest,
		CodePollExpired:      http.StatusBadRequest,
		CodeInvalidSelection: http.StatusBadRequest,
		CodeDuplicateVote:    http.StatusBadRequest,
		CodeValidation:       http.StatusBadRequest,
		CodeUnavailable:      http.StatusServiceUnavailable,
		CodeInternal:         http.StatusInternalServerError,
		Code("unknown"):      http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
