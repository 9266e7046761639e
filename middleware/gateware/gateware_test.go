package gateware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAPIPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/api/accounts", true},
		{"/admin/api/accounts", true},
		{"/admin/api/accounts/123/role", true},
		{"/admin/dashboard", false},
		{"/user/login", false},
		{"/apispec", false},
		{"/", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, isAPIPath(tc.path), "path %s", tc.path)
	}
}
