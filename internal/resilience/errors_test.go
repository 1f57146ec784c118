package resilience

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient_TypedError(t *testing.T) {
	base := errors.New("connection refused by upstream")
	assert.True(t, IsTransient(NewTransientError(base, 503)))
}

func TestIsTransient_WrappedInChain(t *testing.T) {
	te := NewTransientError(errors.New("overloaded"), 529)
	wrapped := fmt.Errorf("judge call: %w", te)
	assert.True(t, IsTransient(wrapped))

	erisWrapped := eris.Wrap(te, "scoring")
	assert.True(t, IsTransient(erisWrapped))
}

func TestIsTransient_PlainError(t *testing.T) {
	// A plain error whose message mentions connections is still not
	// transient: the decision is a type match, not text sniffing.
	assert.False(t, IsTransient(errors.New("connection reset by peer")))
	assert.False(t, IsTransient(nil))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	te := NewTransientError(base, 500)
	assert.ErrorIs(t, te, base)
	assert.Equal(t, "boom", te.Error())
}
