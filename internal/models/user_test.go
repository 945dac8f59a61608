package models

import "testing"

func TestUserIsActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusActive, true},
		{StatusInactive, false},
		{"", false},
		{"suspended", false},
	}

	for _, tt := range tests {
		u := &User{Status: tt.status}
		if got := u.IsActive(); got != tt.want {
			t.Errorf("IsActive() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestUserRoleCodes(t *testing.T) {
	u := &User{Roles: []Role{
		{Code: RoleStaff},
		{Code: RoleAccountant},
		{Code: RoleStaff},
	}}

	codes := u.RoleCodes()
	if len(codes) != 2 {
		t.Fatalf("expected deduplicated code set, got %v", codes)
	}
	for _, want := range []string{RoleStaff, RoleAccountant} {
		if _, ok := codes[want]; !ok {
			t.Fatalf("missing %s in %v", want, codes)
		}
	}
}
