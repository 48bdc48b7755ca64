package token

import (
	"testing"

	"github.com/arcadia-chat/arcadia/database/model"
)

func TestIssueAndParse(t *testing.T) {
	Init("test-secret")

	user := &model.User{Id: 7, Username: "alice"}
	raw, err := Issue(user, false)
	if err != nil {
		t.Fatal("issue failed:", err)
	}

	claims, err := Parse(raw)
	if err != nil {
		t.Fatal("parse failed:", err)
	}
	if claims.UserId != 7 {
		t.Errorf("UserId = %d, want 7", claims.UserId)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", claims.Subject)
	}
	if !claims.IsFull() {
		t.Error("token without two-factor should be full")
	}
}

func TestPartialAndFullTokens(t *testing.T) {
	Init("test-secret")

	user := &model.User{Id: 9, Username: "bob", TwoFactorEnabled: true}

	tests := []struct {
		name           string
		secondFactorOK bool
		wantFull       bool
	}{
		{"before second factor", false, false},
		{"after second factor", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Issue(user, tc.secondFactorOK)
			if err != nil {
				t.Fatal("issue failed:", err)
			}
			claims, err := Parse(raw)
			if err != nil {
				t.Fatal("parse failed:", err)
			}
			if claims.IsFull() != tc.wantFull {
				t.Errorf("IsFull() = %v, want %v", claims.IsFull(), tc.wantFull)
			}
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	Init("test-secret")

	user := &model.User{Id: 1, Username: "carol"}
	raw, err := Issue(user, false)
	if err != nil {
		t.Fatal("issue failed:", err)
	}

	if _, err := Parse(""); err == nil {
		t.Error("empty token should fail")
	}
	if _, err := Parse("not.a.token"); err == nil {
		t.Error("garbage token should fail")
	}

	// token signed with a different secret must not validate
	Init("another-secret")
	if _, err := Parse(raw); err == nil {
		t.Error("token signed with old secret should fail")
	}
}
