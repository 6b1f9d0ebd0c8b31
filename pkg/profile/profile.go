// Package profile holds the current user's profile and a read-through cache
// over it. Membership lists are opaque references owned by the backend; this
// package never interprets them.
package profile

// UserProfile is the local view of the logged-in user.
// Email is the only stable identifier before the backend assigns an id;
// once ID is set it must not change. All cross-entity references are
// opaque string ids.
type UserProfile struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Verified    bool   `json:"verified"`

	OrganizationIDs []string `json:"organization_ids,omitempty"`
	ProjectIDs      []string `json:"project_ids,omitempty"`
	IssueIDs        []string `json:"issue_ids,omitempty"`
}

// Patch is a partial profile edit. Nil fields are left untouched when the
// patch is applied, which is what makes ApplyLocalEdit a shallow merge
// rather than a replace. Email and membership lists are not patchable
// locally: email is the identity key, and memberships are backend-owned.
type Patch struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`

	// Password rides along to the update endpoint but is never cached or
	// persisted locally.
	Password *string `json:"-"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.DisplayName == nil && p.AvatarURL == nil && p.Password == nil
}

// apply merges the patch into a copy of the profile, field by field.
func (p Patch) apply(base UserProfile) UserProfile {
	if p.DisplayName != nil {
		base.DisplayName = *p.DisplayName
	}
	if p.AvatarURL != nil {
		base.AvatarURL = *p.AvatarURL
	}
	return base
}
