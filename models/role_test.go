// models/role_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRank(t *testing.T) {
	assert.Less(t, RoleSuperAdmin.Rank(), RoleAdmin.Rank())
	assert.Less(t, RoleAdmin.Rank(), RoleAdvancedUser.Rank())
	assert.Less(t, RoleAdvancedUser.Rank(), RoleRegularUser.Rank())
	assert.False(t, Role("mystery").Valid())
	assert.True(t, RoleRegularUser.Valid())
}

func TestCanManage(t *testing.T) {
	cases := []struct {
		name   string
		actor  Role
		target Role
		want   bool
	}{
		{"super admin over admin", RoleSuperAdmin, RoleAdmin, true},
		{"admin over regular user", RoleAdmin, RoleRegularUser, true},
		{"equal rank refused", RoleAdmin, RoleAdmin, false},
		{"upward refused", RoleAdvancedUser, RoleAdmin, false},
		{"nobody manages an unknown role upward", Role("mystery"), RoleRegularUser, false},
		{"unknown role is manageable by anyone real", RoleRegularUser, Role("mystery"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanManage(tc.actor, tc.target))
		})
	}
}

func TestBorrowStatusOpen(t *testing.T) {
	assert.True(t, StatusBorrowed.Open())
	assert.True(t, StatusOverdue.Open())
	assert.False(t, StatusReturned.Open())
	assert.False(t, StatusReturnedLate.Open())
}

func TestUserRedacted(t *testing.T) {
	u := User{ID: "user_1", PasswordHash: "secret"}
	assert.Empty(t, u.Redacted().PasswordHash)
	assert.Equal(t, "secret", u.PasswordHash) // 原值不动
}
