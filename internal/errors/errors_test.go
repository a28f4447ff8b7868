package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestOperationErrors(t *testing.T) {
	assert.Equal(t, "no files selected", ErrNothingSelected.Error())
	assert.True(t, IsNothingSelected(ErrNothingSelected))
	assert.False(t, IsNotConfirmed(ErrNothingSelected))

	err := ErrOperationInFlight.WithOperation("shred")
	assert.Equal(t, "shred: operation already in progress", err.Error())
	assert.Equal(t, "shred", err.Operation())
	assert.True(t, Is(err, ErrOperationInFlight))
	assert.True(t, IsInFlight(err))

	wrapped := fmt.Errorf("encrypt: %w", ErrNotConfirmed)
	assert.True(t, IsNotConfirmed(wrapped))
	assert.Equal(t, NotConfirmed, KindOf(wrapped))
}

func TestRequestError(t *testing.T) {
	base := errors.New("connection refused")
	transport := NewTransportError("GET", "http://h/shred/a", base)
	assert.Equal(t, "GET http://h/shred/a: request failed: connection refused", transport.Error())
	assert.True(t, IsTransport(transport))
	assert.True(t, Is(transport, base))
	assert.Equal(t, 0, StatusOf(transport))

	status := NewStatusError("GET", "http://h/files/a.jpg", 404, "not found")
	assert.Equal(t, "GET http://h/files/a.jpg: unexpected status 404: not found", status.Error())
	assert.Equal(t, BackendStatus, status.Kind())
	assert.Equal(t, 404, StatusOf(Wrap(status, "fetch")))
	assert.False(t, IsTransport(status))
}

func TestAlbumAccessErrors(t *testing.T) {
	locked := Wrap(NewStatusError("GET", "http://h/file_list/private", 403, "Forbidden to access password protected album"), "go to private")
	assert.True(t, IsForbidden(locked))
	assert.False(t, IsIncorrectPassword(locked))

	wrong := NewStatusError("POST", "http://h/albums/private/auth", 406, "Incorrect Password")
	assert.True(t, IsIncorrectPassword(wrong))
	assert.False(t, IsForbidden(wrong))
	assert.False(t, IsForbidden(New("plain")))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "server.url", InvalidConfig, nil)
	assert.Equal(t, "invalid value: server.url", configErr.Error())
	assert.Equal(t, "server.url", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	origErr := fmt.Errorf("missing scheme")
	configErr = NewConfigError("invalid value", "server.url", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: server.url: missing scheme", configErr.Error())
	assert.Equal(t, origErr, Unwrap(configErr))

	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
	assert.Equal(t, "invalid configuration", ErrInvalidConfig.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, Unknown},
		{"plain", errors.New("x"), Unknown},
		{"wrapped config", Wrap(NewConfigError("bad", "log.level", InvalidConfig, nil), "load"), InvalidConfig},
		{"path", Wrap(ErrInvalidPath, "cd"), InvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
	assert.Equal(t, "backend_status", BackendStatus.String())
}
