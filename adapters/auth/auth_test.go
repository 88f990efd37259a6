package auth

import (
	"context"
	"testing"

	"github.com/artpar/docgate/domain/route"
)

func TestBasicVerifier_Verify(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	v := NewBasicVerifier("admin", hash)

	tests := []struct {
		name string
		user string
		pass string
		want string
	}{
		{"valid", "admin", "s3cret", "admin"},
		{"wrong password", "admin", "nope", ""},
		{"wrong user", "root", "s3cret", ""},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verify(tt.user, tt.pass); got != tt.want {
				t.Errorf("Verify(%q, %q) = %q, want %q", tt.user, tt.pass, got, tt.want)
			}
		})
	}
}

func TestBasicVerifier_Disabled(t *testing.T) {
	v := NewBasicVerifier("", "")
	if got := v.Verify("admin", "anything"); got != "" {
		t.Errorf("disabled verifier accepted credentials: %q", got)
	}
}

func TestChecker_Allowed(t *testing.T) {
	c := NewChecker()
	ctx := context.Background()

	open := &route.Endpoint{Path: "api/v3/repositories/", Method: "get"}
	protected := &route.Endpoint{Path: "api/v3/tasks/", Method: "get", Protected: true}

	if !c.Allowed(ctx, "", open) {
		t.Error("anonymous should see unprotected endpoint")
	}
	if c.Allowed(ctx, "", protected) {
		t.Error("anonymous should not see protected endpoint")
	}
	if !c.Allowed(ctx, "admin", protected) {
		t.Error("authenticated identity should see protected endpoint")
	}
}
