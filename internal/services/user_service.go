package services

import (
	"context"
	"errors"
	"fmt"

	"alliedparts/internal/models"
	"alliedparts/internal/repositories"
)

// ErrInvalidRole is returned when a user payload carries an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// UpsertUserResult is the outcome of UpsertUser.
type UpsertUserResult struct {
	Result *repositories.UpdateResult `json:"result"`
	Token  string                     `json:"token"`
}

// UserService handles business logic related to users and roles.
type UserService struct {
	users repositories.Collection
	auth  *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.Collection, auth *AuthService) *UserService {
	return &UserService{
		users: users,
		auth:  auth,
	}
}

// UpsertUser records a signed-in user and issues a fresh token.
// An existing user document is left as it is, so its role never changes here.
func (s *UserService) UpsertUser(ctx context.Context, uid string, loggedUser models.Document) (*UpsertUserResult, error) {
	filter := repositories.Filter{UID: uid}

	var set models.Document
	existing, err := s.users.FindOne(ctx, filter)
	switch {
	case err == nil:
		set = existing.Without("_id")
	case errors.Is(err, repositories.ErrNotFound):
		set = loggedUser.Without("_id")
		set["uid"] = uid
		role, err := models.ParseRole(set["role"])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRole, err)
		}
		set["role"] = string(role)
	default:
		return nil, err
	}

	result, err := s.users.UpdateOne(ctx, filter, set, true)
	if err != nil {
		return nil, err
	}

	token, err := s.auth.IssueToken(uid)
	if err != nil {
		return nil, err
	}
	return &UpsertUserResult{Result: result, Token: token}, nil
}

// Role returns the stored role of uid, or repositories.ErrNotFound.
func (s *UserService) Role(ctx context.Context, uid string) (models.Role, error) {
	user, err := s.users.FindOne(ctx, repositories.Filter{UID: uid})
	if err != nil {
		return "", err
	}
	return models.RoleOf(user), nil
}

// IsAdmin reports whether uid exists and holds the admin role.
func (s *UserService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	role, err := s.Role(ctx, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return models.Authorize(models.PolicyAdmin, role), nil
}

// GetAllUsers returns every user document.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.Document, error) {
	return s.users.Find(ctx, repositories.Filter{}, repositories.FindOptions{})
}

// GetProfile returns the user document for uid.
func (s *UserService) GetProfile(ctx context.Context, uid string) (models.Document, error) {
	return s.users.FindOne(ctx, repositories.Filter{UID: uid})
}

// UpdateProfile sets profile fields on uid. Identity and role fields are ignored.
func (s *UserService) UpdateProfile(ctx context.Context, uid string, profile models.Document) (*repositories.UpdateResult, error) {
	return s.users.UpdateOne(ctx, repositories.Filter{UID: uid}, profile.Without("_id", "uid", "role"), false)
}

// MakeAdmin promotes uid to the admin role.
func (s *UserService) MakeAdmin(ctx context.Context, uid string) (*repositories.UpdateResult, error) {
	return s.users.UpdateOne(ctx, repositories.Filter{UID: uid}, models.Document{"role": string(models.RoleAdmin)}, false)
}

// DeleteUser removes the user document for uid.
func (s *UserService) DeleteUser(ctx context.Context, uid string) (*repositories.DeleteResult, error) {
	return s.users.DeleteOne(ctx, repositories.Filter{UID: uid})
}
