package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", RoleName: RoleManager}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u1" || claims.RoleName != RoleManager {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{RoleEmployee, PermLeaveWrite, true},
		{RoleEmployee, PermLeaveApprove, false},
		{RoleManager, PermLeaveApprove, true},
		{RoleManager, PermUsersWrite, false},
		{RoleHR, PermUsersWrite, true},
		{RoleHR, PermJobsRun, false},
		{RoleAdmin, PermJobsRun, true},
		{RoleAdmin, PermLeaveAdmin, true},
		{"unknown", PermLeaveRead, false},
	}
	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.perm); got != tt.want {
			t.Fatalf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleEmployee, RoleManager, RoleHR, RoleAdmin} {
		if !ValidRole(role) {
			t.Fatalf("%s should be valid", role)
		}
	}
	if ValidRole("root") {
		t.Fatal("unknown role accepted")
	}
}
