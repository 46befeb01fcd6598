package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsChain(t *testing.T) {
	base := New(CodeConflict, "charity already registered")
	wrapped := Wrap(base, CodeInternal, "registration failed")

	require.ErrorIs(t, wrapped, base)
	assert.True(t, HasCode(wrapped, CodeInternal))
	assert.True(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(wrapped, CodeNotFound))
}

func TestWrapForeignError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeUnavailable, "transfer failed")

	require.ErrorIs(t, wrapped, cause)
	assert.Equal(t, CodeUnavailable, CodeOf(wrapped))
	assert.Contains(t, wrapped.Error(), "transfer failed")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestCodeOfUncoded(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestCodeOfNested(t *testing.T) {
	inner := New(CodeNotFound, "no credential")
	outer := fmt.Errorf("lookup: %w", inner)
	assert.Equal(t, CodeNotFound, CodeOf(outer))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(CodeForbidden))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeUnprocessable))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(CodeUnavailable))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
}
