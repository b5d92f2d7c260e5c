package cloud

import (
	"errors"
	"fmt"
	"testing"
)

func TestOperationNotSupportedError(t *testing.T) {
	err := NewOperationNotSupportedError("Acme Cloud", "AffinityGroups", "created")

	if got, want := err.Error(), "AffinityGroups cannot be created in Acme Cloud"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := fmt.Errorf("launch: %w", err)
	if !errors.Is(wrapped, ErrOperationNotSupported) {
		t.Error("wrapped error should match ErrOperationNotSupported")
	}
	if !IsNotSupported(wrapped) {
		t.Error("IsNotSupported() = false, want true")
	}
	var target *OperationNotSupportedError
	if !errors.As(wrapped, &target) || target.Resource != "AffinityGroups" {
		t.Errorf("errors.As() did not recover the error, got %+v", target)
	}
}

func TestInternalAndProviderErrors(t *testing.T) {
	cause := errors.New("boom")

	internal := NewInternalError("build", cause)
	if !errors.Is(internal, ErrInternal) || !errors.Is(internal, cause) {
		t.Errorf("InternalError should match ErrInternal and its cause: %v", internal)
	}

	perr := NewProviderError("acme", "DescribeVolumes", "Throttling", cause)
	if !errors.Is(perr, ErrProvider) || !errors.Is(perr, cause) {
		t.Errorf("ProviderError should match ErrProvider and its cause: %v", perr)
	}
	if errors.Is(perr, ErrOperationNotSupported) {
		t.Error("ProviderError must not look like an unsupported operation")
	}
}

func TestProviderInfoDisplayName(t *testing.T) {
	tests := []struct {
		info ProviderInfo
		want string
	}{
		{ProviderInfo{ProviderName: "acme", CloudName: "Acme Cloud"}, "acme Acme Cloud"},
		{ProviderInfo{ProviderName: "acme", CloudName: "acme"}, "acme"},
		{ProviderInfo{CloudName: "Acme Cloud"}, "Acme Cloud"},
		{ProviderInfo{ProviderName: "acme"}, "acme"},
		{ProviderInfo{}, "the cloud provider"},
	}
	for _, tt := range tests {
		if got := tt.info.DisplayName(); got != tt.want {
			t.Errorf("%+v.DisplayName() = %q, want %q", tt.info, got, tt.want)
		}
	}
}
