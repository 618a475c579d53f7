package models

import "fmt"

// Role is the authorization tier stored on a user document.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored role value into a Role.
// An empty value maps to RoleUser.
func ParseRole(v interface{}) (Role, error) {
	if v == nil {
		return RoleUser, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid role type %T", v)
	}
	switch Role(s) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// Policy describes the access requirement of a route.
type Policy int

const (
	PolicyPublic Policy = iota
	PolicyAuthenticated
	PolicyAdmin
)

// Authorize reports whether an authenticated caller holding role satisfies p.
func Authorize(p Policy, role Role) bool {
	switch p {
	case PolicyPublic, PolicyAuthenticated:
		return true
	case PolicyAdmin:
		return role == RoleAdmin
	}
	return false
}

// RoleOf returns the role stored on a user document.
// Unknown values are treated as RoleUser so they never grant admin access.
func RoleOf(user Document) Role {
	if user == nil {
		return RoleUser
	}
	role, err := ParseRole(user["role"])
	if err != nil {
		return RoleUser
	}
	return role
}
