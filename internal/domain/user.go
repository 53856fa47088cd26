package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// roleRank orders roles for permission checks.
var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// HasPermission reports whether the role satisfies the minimum required
// role. Unknown roles rank below every known one.
func (r Role) HasPermission(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
