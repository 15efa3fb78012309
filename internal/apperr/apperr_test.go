package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndMessage(t *testing.T) {
	cause := errors.New("deadline exceeded")
	wrapped := fmt.Errorf("handler: %w", Upstream("Analysis failed: deadline exceeded", cause))

	assert.Equal(t, KindUpstream, KindOf(wrapped))
	assert.Equal(t, "Analysis failed: deadline exceeded", Message(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	plain := errors.New("raw")
	assert.Equal(t, KindInternal, KindOf(plain))
	assert.Equal(t, "An unknown error occurred.", Message(plain))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindAuth))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(KindNotFound))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(KindUpstream))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "VALIDATION: Resume must be at least 100 characters.",
		Validation("Resume must be at least 100 characters.").Error())
	assert.Equal(t, "AUTH: Invalid email or password.: mismatch",
		Auth("Invalid email or password.", errors.New("mismatch")).Error())
}
