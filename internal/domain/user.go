package domain

import "time"

// RoleAdmin is the marker role of a privileged actor.
const RoleAdmin = "ADMIN"

const (
	RoleUser     = "USER"
	RoleUploader = "UPLOADER"
)

// User is read-only from the service's point of view: users are created by an
// external system and only looked up here.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// HasRole reports whether the role set contains role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
