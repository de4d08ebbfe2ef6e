package server

import (
	"aperture/internal/models"
	"aperture/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePhoto handles POST /api/photos
// @Summary Upload a photo
// @Description Create a photo from an already-uploaded image URL
// @Tags photos
// @Accept json
// @Produce json
// @Param request body object{image_url=string,caption=string} true "Photo"
// @Success 201 {object} models.Photo
// @Failure 400 {object} models.ErrorResponse
// @Router /photos [post]
func (s *Server) CreatePhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		ImageURL string `json:"image_url"`
		Caption  string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	photo, err := s.photoService.CreatePhoto(ctx, service.CreatePhotoInput{
		UserID:   userID,
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

// GetPhotos handles GET /api/photos (the public explore feed)
func (s *Server) GetPhotos(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, _ := s.optionalUserID(c)

	photos, err := s.photoService.ListPhotos(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(photos)
}

// GetFeed handles GET /api/feed: photos from followed users plus your own.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	photos, err := s.photoService.GetFeed(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(photos)
}

// GetPhoto handles GET /api/photos/:id
func (s *Server) GetPhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	photo, err := s.photoService.GetPhoto(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(photo)
}

// GetUserPhotos handles GET /api/users/:id/photos
func (s *Server) GetUserPhotos(c *fiber.Ctx) error {
	ctx := c.Context()
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	photos, err := s.photoService.GetUserPhotos(ctx, ownerID, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(photos)
}

// DeletePhoto handles DELETE /api/photos/:id
func (s *Server) DeletePhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if err := s.photoService.DeletePhoto(ctx, service.DeletePhotoInput{
		UserID:  userID,
		PhotoID: id,
	}); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Photo deleted"})
}

// ToggleLikePhoto handles POST /api/photos/:id/like
// @Summary Toggle a like
// @Description Like the photo if not liked, un-like it otherwise
// @Tags photos
// @Produce json
// @Param id path int true "Photo ID"
// @Success 200 {object} object{liked=bool,state=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /photos/{id}/like [post]
func (s *Server) ToggleLikePhoto(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	state, err := s.photoService.ToggleLike(ctx, userID, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"liked": state.IsActive(),
		"state": state.String(),
	})
}

// GetPhotoLikes handles GET /api/photos/:id/likes, the users liking the photo.
func (s *Server) GetPhotoLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.photoService.GetLikedUsers(ctx, id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}
