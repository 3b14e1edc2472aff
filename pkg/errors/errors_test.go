package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "unknown format %q", "bmp")
	assert.Equal(t, `INVALID_FORMAT: unknown format "bmp"`, err.Error())
	assert.Equal(t, `unknown format "bmp"`, UserMessage(err))

	cause := errors.New("disk full")
	wrapped := Wrap(ErrCodeInvalidPath, cause, "write %s", "out/map.svg")
	assert.Equal(t, "INVALID_PATH: write out/map.svg: disk full", wrapped.Error())
	assert.Equal(t, "write out/map.svg", UserMessage(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "disk full", UserMessage(cause))
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeInvalidSeed, "seed cannot be empty")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", inner, ErrCodeInvalidSeed},
		{"outermost wins", Wrap(ErrCodeInvalidConfig, inner, "generator"), ErrCodeInvalidConfig},
		{"fmt wrapped", fmt.Errorf("batch seed 3: %w", inner), ErrCodeInvalidSeed},
		{"uncoded", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
			if tt.want != "" {
				assert.True(t, Is(tt.err, tt.want))
			}
			assert.False(t, Is(tt.err, ErrCodeCache))
		})
	}
}

func TestFromContext(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	err := FromContext(canceled.Err(), "generate")
	assert.Equal(t, ErrCodeCanceled, err.Code)
	assert.ErrorIs(t, err, context.Canceled)

	expired, stop := context.WithTimeout(context.Background(), 0)
	defer stop()
	<-expired.Done()
	err = FromContext(expired.Err(), "generate")
	require.Equal(t, ErrCodeTimeout, err.Code)
	assert.Equal(t, "generate: deadline exceeded", err.Message)
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid seed", New(ErrCodeInvalidSeed, "bad"), http.StatusBadRequest},
		{"invalid config", Wrap(ErrCodeInvalidConfig, errors.New("depth"), "generator"), http.StatusBadRequest},
		{"timeout", FromContext(context.DeadlineExceeded, "render"), http.StatusGatewayTimeout},
		{"unsupported", New(ErrCodeUnsupported, "png without graphviz"), http.StatusNotImplemented},
		{"canceled", FromContext(context.Canceled, "render"), http.StatusInternalServerError},
		{"cache", New(ErrCodeCache, "redis down"), http.StatusInternalServerError},
		{"uncoded", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
