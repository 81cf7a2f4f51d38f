package render

import (
	"strconv"
	"strings"

	"github.com/lakedash/lakedash/internal/backend"
)

// IdentityFields are the displayable identity values, placeholder-filled.
type IdentityFields struct {
	UserName    string
	DisplayName string
	Active      string
}

// Identity derives display fields from a SCIM user. The username falls
// back to the first listed email address, the display name to the given
// and family names joined with a space (blank parts omitted), and the
// active flag renders tri-state: "true", "false", or the placeholder
// when the backend omitted it.
func Identity(u *backend.User) IdentityFields {
	f := IdentityFields{UserName: Dash, DisplayName: Dash, Active: Dash}
	if u == nil {
		return f
	}

	if u.UserName != "" {
		f.UserName = u.UserName
	} else if len(u.Emails) > 0 && u.Emails[0].Value != "" {
		f.UserName = u.Emails[0].Value
	}

	if u.DisplayName != "" {
		f.DisplayName = u.DisplayName
	} else if u.Name != nil {
		parts := make([]string, 0, 2)
		if u.Name.GivenName != "" {
			parts = append(parts, u.Name.GivenName)
		}
		if u.Name.FamilyName != "" {
			parts = append(parts, u.Name.FamilyName)
		}
		if len(parts) > 0 {
			f.DisplayName = strings.Join(parts, " ")
		}
	}

	if u.Active != nil {
		f.Active = strconv.FormatBool(*u.Active)
	}

	return f
}
