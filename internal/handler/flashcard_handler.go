package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyhub-app/studyhub-api/internal/models"
	"github.com/studyhub-app/studyhub-api/internal/service"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
	"github.com/studyhub-app/studyhub-api/pkg/response"
)

// FlashcardHandler wires flashcard endpoints to the flashcard service.
type FlashcardHandler struct {
	service *service.FlashcardService
}

// NewFlashcardHandler creates a new handler.
func NewFlashcardHandler(svc *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{service: svc}
}

// ListSets godoc
// @Summary List my flashcard sets
// @Tags Flashcards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /flashcard-sets [get]
// @Security BearerAuth
func (h *FlashcardHandler) ListSets(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sets, err := h.service.ListSets(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sets, nil)
}

// GetSet godoc
// @Summary Get a set with its cards
// @Tags Flashcards
// @Produce json
// @Param id path string true "Set ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcard-sets/{id} [get]
// @Security BearerAuth
func (h *FlashcardHandler) GetSet(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.service.GetSet(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// CreateSet godoc
// @Summary Create a flashcard set
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param payload body models.FlashcardSetRequest true "Set payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /flashcard-sets [post]
// @Security BearerAuth
func (h *FlashcardHandler) CreateSet(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.FlashcardSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid set payload"))
		return
	}

	set, err := h.service.CreateSet(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, set)
}

// UpdateSet godoc
// @Summary Update a flashcard set
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param id path string true "Set ID"
// @Param payload body models.FlashcardSetRequest true "Set payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcard-sets/{id} [put]
// @Security BearerAuth
func (h *FlashcardHandler) UpdateSet(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.FlashcardSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid set payload"))
		return
	}

	set, err := h.service.UpdateSet(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, set, nil)
}

// DeleteSet godoc
// @Summary Delete a flashcard set
// @Description Delete a set and all of its cards
// @Tags Flashcards
// @Produce json
// @Param id path string true "Set ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcard-sets/{id} [delete]
// @Security BearerAuth
func (h *FlashcardHandler) DeleteSet(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteSet(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddCard godoc
// @Summary Add a card to a set
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param id path string true "Set ID"
// @Param payload body models.FlashcardRequest true "Card payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /flashcard-sets/{id}/cards [post]
// @Security BearerAuth
func (h *FlashcardHandler) AddCard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.FlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid card payload"))
		return
	}

	card, err := h.service.AddCard(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, card)
}

// UpdateCard godoc
// @Summary Update a card
// @Tags Flashcards
// @Accept json
// @Produce json
// @Param cardId path string true "Card ID"
// @Param payload body models.FlashcardRequest true "Card payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcards/{cardId} [put]
// @Security BearerAuth
func (h *FlashcardHandler) UpdateCard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.FlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid card payload"))
		return
	}

	card, err := h.service.UpdateCard(c.Request.Context(), c.Param("cardId"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, card, nil)
}

// DeleteCard godoc
// @Summary Delete a card
// @Tags Flashcards
// @Produce json
// @Param cardId path string true "Card ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /flashcards/{cardId} [delete]
// @Security BearerAuth
func (h *FlashcardHandler) DeleteCard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), c.Param("cardId"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
