package handlers

import (
	"alliedparts/internal/models"
	"alliedparts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for parts, reviews and blogs.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Get("/parts", h.HandleGetParts)
	router.Get("/parts/3", h.HandleGetHomeParts)
	router.Get("/reviews", h.HandleGetReviews)
	router.Get("/review/6", h.HandleGetHomeReviews)
	router.Get("/blogs", h.HandleGetBlogs)
	router.Get("/item/:itemId", guards.Authenticated, h.HandleGetPart)
	router.Post("/add-review/:uid", guards.Authenticated, h.HandleAddReview)

	router.Post("/add-item", append(guards.admin(), h.HandleAddPart)...)
	router.Delete("/delete-item/:itemId", append(guards.admin(), h.HandleDeletePart)...)
}

// HandleGetParts lists every part, newest first.
// HandleGetPart returns a single part, or null.
func (h *CatalogHandler) HandleGetParts(c *fiber.Ctx) error {
	parts, err := h.service.GetParts(c.UserContext(), 0)
	return sendResult(c, parts, err)
}

// HandleGetHomeParts lists the newest parts for the home page.
func (h *CatalogHandler) HandleGetHomeParts(c *fiber.Ctx) error {
	parts, err := h.service.GetParts(c.UserContext(), services.HomePartsLimit)
	return sendResult(c, parts, err)
}

// HandleGetReviews lists every review, newest first.
func (h *CatalogHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetReviews(c.UserContext(), 0)
	return sendResult(c, reviews, err)
}

// HandleGetHomeReviews lists the newest reviews for the home page.
func (h *CatalogHandler) HandleGetHomeReviews(c *fiber.Ctx) error {
	reviews, err := h.service.GetReviews(c.UserContext(), services.HomeReviewsLimit)
	return sendResult(c, reviews, err)
}

// HandleGetBlogs lists every blog post.
func (h *CatalogHandler) HandleGetBlogs(c *fiber.Ctx) error {
	blogs, err := h.service.GetBlogs(c.UserContext())
	return sendResult(c, blogs, err)
}

func (h *CatalogHandler) HandleGetPart(c *fiber.Ctx) error {
	part, err := h.service.GetPartByID(c.UserContext(), c.Params("itemId"))
	return sendDocument(c, part, err)
}

// HandleAddPart stores the posted part.
func (h *CatalogHandler) HandleAddPart(c *fiber.Ctx) error {
	var part models.Document
	if err := bindJSON(c, nil, &part); err != nil {
		return err
	}
	res, err := h.service.AddPart(c.UserContext(), part)
	return sendResult(c, res, err)
}

// HandleDeletePart removes a part.
func (h *CatalogHandler) HandleDeletePart(c *fiber.Ctx) error {
	res, err := h.service.DeletePart(c.UserContext(), c.Params("itemId"))
	return sendResult(c, res, err)
}

type addReviewRequest struct {
	Review models.Document `json:"review" validate:"required"`
}

// HandleAddReview stores the user's review unless one already exists.
func (h *CatalogHandler) HandleAddReview(c *fiber.Ctx) error {
	var req addReviewRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.service.AddReview(c.UserContext(), c.Params("uid"), req.Review)
	return sendResult(c, res, err)
}
