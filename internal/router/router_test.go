package router

import (
	"testing"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		method   string
		expected Intent
	}{
		{"GET", ReadUser},
		{"get", ReadUser},
		{" GET ", ReadUser},
		{"POST", Authenticate},
		{"Post", Authenticate},
		{"DELETE", Unsupported},
		{"PUT", Unsupported},
		{"PATCH", Unsupported},
		{"OPTIONS", Unsupported},
		{"HEAD", Unsupported},
		{"", Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := Route(tt.method); got != tt.expected {
				t.Errorf("Route(%q) = %v, want %v", tt.method, got, tt.expected)
			}
		})
	}
}

func TestIntent_RequiresPassword(t *testing.T) {
	tests := []struct {
		intent   Intent
		expected bool
	}{
		{ReadUser, false},
		{Authenticate, true},
		{Unsupported, false},
	}

	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			if got := tt.intent.RequiresPassword(); got != tt.expected {
				t.Errorf("%v.RequiresPassword() = %v, want %v", tt.intent, got, tt.expected)
			}
		})
	}
}

func TestSupportedMethods(t *testing.T) {
	methods := SupportedMethods()
	if len(methods) != 2 {
		t.Fatalf("Expected 2 supported methods, got %d", len(methods))
	}
	for _, m := range methods {
		if Route(m) == Unsupported {
			t.Errorf("Supported method %q routes to Unsupported", m)
		}
	}
}
