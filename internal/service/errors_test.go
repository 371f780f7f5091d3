package service

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "message",
		Message: "cannot be empty",
	}

	want := "validation error on field message: cannot be empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
	}{
		{
			name:    "nil error returns nil",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name: "wraps error with message",
			err:  errors.New("base error"),
			msg:  "additional context",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)

			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatal("WrapError() = nil, want error")
			}
			if !errors.Is(got, tt.err) {
				t.Error("WrapError() should wrap the original error")
			}
		})
	}
}

func TestWrapError_PreservesSentinel(t *testing.T) {
	wrapped := WrapError(ErrExternalService, "model backend call")
	if !errors.Is(wrapped, ErrExternalService) {
		t.Error("WrapError() should preserve sentinel errors through errors.Is")
	}
}
