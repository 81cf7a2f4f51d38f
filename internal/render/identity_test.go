package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lakedash/lakedash/internal/backend"
	"github.com/lakedash/lakedash/internal/testutil/ptr"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		user *backend.User
		want IdentityFields
	}{
		{
			name: "nil user is all placeholders",
			user: nil,
			want: IdentityFields{UserName: Dash, DisplayName: Dash, Active: Dash},
		},
		{
			name: "fully populated",
			user: &backend.User{
				UserName:    "jane@example.com",
				DisplayName: "Jane Doe",
				Active:      ptr.Bool(true),
			},
			want: IdentityFields{UserName: "jane@example.com", DisplayName: "Jane Doe", Active: "true"},
		},
		{
			name: "username falls back to first email",
			user: &backend.User{
				Emails: []backend.EmailRef{{Value: "jane@example.com"}, {Value: "alt@example.com"}},
			},
			want: IdentityFields{UserName: "jane@example.com", DisplayName: Dash, Active: Dash},
		},
		{
			name: "blank first email is not a username",
			user: &backend.User{
				Emails: []backend.EmailRef{{Value: ""}, {Value: "alt@example.com"}},
			},
			want: IdentityFields{UserName: Dash, DisplayName: Dash, Active: Dash},
		},
		{
			name: "display name falls back to joined name parts",
			user: &backend.User{
				Name: &backend.UserName{GivenName: "Jane", FamilyName: "Doe"},
			},
			want: IdentityFields{UserName: Dash, DisplayName: "Jane Doe", Active: Dash},
		},
		{
			name: "blank name parts are omitted from the join",
			user: &backend.User{
				Name: &backend.UserName{FamilyName: "Doe"},
			},
			want: IdentityFields{UserName: Dash, DisplayName: "Doe", Active: Dash},
		},
		{
			name: "empty name struct keeps the placeholder",
			user: &backend.User{
				Name: &backend.UserName{},
			},
			want: IdentityFields{UserName: Dash, DisplayName: Dash, Active: Dash},
		},
		{
			name: "explicit display name wins over name parts",
			user: &backend.User{
				DisplayName: "J. Doe",
				Name:        &backend.UserName{GivenName: "Jane", FamilyName: "Doe"},
			},
			want: IdentityFields{UserName: Dash, DisplayName: "J. Doe", Active: Dash},
		},
		{
			name: "inactive user renders false",
			user: &backend.User{
				UserName: "bob@example.com",
				Active:   ptr.Bool(false),
			},
			want: IdentityFields{UserName: "bob@example.com", DisplayName: Dash, Active: "false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identity(tt.user)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Identity() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
