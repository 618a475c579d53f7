package handlers

import (
	"alliedparts/internal/models"
	"alliedparts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users, roles and profiles.
type UserHandler struct {
	service                   *services.UserService
	validate                  *validator.Validate
	profileUpdateRequiresAuth bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, profileUpdateRequiresAuth bool) *UserHandler {
	return &UserHandler{
		service:                   service,
		validate:                  validator.New(),
		profileUpdateRequiresAuth: profileUpdateRequiresAuth,
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Put("/user/:uid", h.HandleUpsertUser)
	router.Get("/admin/:uid", h.HandleCheckAdmin)
	router.Get("/users", guards.Authenticated, h.HandleGetUsers)
	router.Get("/profile/:uid", guards.Authenticated, h.HandleGetProfile)
	if h.profileUpdateRequiresAuth {
		router.Put("/profile-update/:uid", guards.Authenticated, h.HandleUpdateProfile)
	} else {
		router.Put("/profile-update/:uid", h.HandleUpdateProfile)
	}

	router.Put("/make-admin/:uid", append(guards.admin(), h.HandleMakeAdmin)...)
	router.Delete("/delete-user/:uid", append(guards.admin(), h.HandleDeleteUser)...)
}

type upsertUserRequest struct {
	LoggedUser models.Document `json:"loggedUser" validate:"required"`
}

// HandleUpsertUser records the signed-in user and returns a fresh token.
func (h *UserHandler) HandleUpsertUser(c *fiber.Ctx) error {
	var req upsertUserRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.service.UpsertUser(c.UserContext(), c.Params("uid"), req.LoggedUser)
	return sendResult(c, res, err)
}

// HandleCheckAdmin reports whether the user holds the admin role.
func (h *UserHandler) HandleCheckAdmin(c *fiber.Ctx) error {
	isAdmin, err := h.service.IsAdmin(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"admin": isAdmin})
}

// HandleGetUsers lists every user.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.UserContext())
	return sendResult(c, users, err)
}

// HandleGetProfile returns the user document, or null.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.UserContext(), c.Params("uid"))
	return sendDocument(c, profile, err)
}

// HandleUpdateProfile sets the posted fields on the user's document.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var profile models.Document
	if err := bindJSON(c, nil, &profile); err != nil {
		return err
	}
	res, err := h.service.UpdateProfile(c.UserContext(), c.Params("uid"), profile)
	return sendResult(c, res, err)
}

// HandleMakeAdmin grants the admin role.
func (h *UserHandler) HandleMakeAdmin(c *fiber.Ctx) error {
	res, err := h.service.MakeAdmin(c.UserContext(), c.Params("uid"))
	return sendResult(c, res, err)
}

// HandleDeleteUser removes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	res, err := h.service.DeleteUser(c.UserContext(), c.Params("uid"))
	return sendResult(c, res, err)
}
