package pipeline

import (
	"errors"
	"testing"

	"vodpress/internal/services"
)

func TestValidateTrigger(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"object payload", `{"trigger":"manual"}`, false},
		{"array payload", `[1]`, false},
		{"string payload", `"go"`, false},
		{"number payload", `42`, false},
		{"true payload", `true`, false},
		{"empty body", ``, true},
		{"whitespace body", "  \n", true},
		{"malformed", `{"trigger":`, true},
		{"null", `null`, true},
		{"empty object", `{}`, true},
		{"empty array", `[]`, true},
		{"empty string", `""`, true},
		{"zero", `0`, true},
		{"false", `false`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTrigger([]byte(tc.payload))
			if tc.wantErr {
				if !errors.Is(err, services.ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
