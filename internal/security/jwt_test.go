package security

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken("romy", []string{RoleEditor})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Username != "romy" {
		t.Errorf("Expected username romy, got %s", claims.Username)
	}
	if !claims.HasRole(RoleEditor) {
		t.Error("Expected editor role")
	}
	if claims.HasRole("admin") {
		t.Error("Did not expect admin role")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).GenerateToken("romy", nil)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with the wrong secret")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.ExtractTokenFromHeader("Bearer abc123")
	if err != nil || token != "abc123" {
		t.Errorf("Expected abc123, got %q (err %v)", token, err)
	}

	if _, err := manager.ExtractTokenFromHeader(""); err == nil {
		t.Error("Expected error for empty header")
	}
	if _, err := manager.ExtractTokenFromHeader("Basic abc"); err == nil {
		t.Error("Expected error for non-bearer header")
	}
}
