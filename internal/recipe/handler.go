package recipe

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImageStorage uploads a recipe image and returns its public URL.
type ImageStorage interface {
	Upload(ctx context.Context, key string, file multipart.File) (string, error)
}

type Handler struct {
	hub     *Hub
	storage ImageStorage
}

func NewHandler(hub *Hub, storage ImageStorage) *Handler {
	return &Handler{hub: hub, storage: storage}
}

func (h *Handler) service(c *gin.Context) *Service {
	return h.hub.ForUser(c.Request.Context(), c.GetString("userID"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrNoIngredients),
		errors.Is(err, ErrDuplicateTitle),
		errors.Is(err, ErrIngredientMissing),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrLineExists),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrUnknownCSVFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recipes": h.service(c).Store().List(),
	})
}

// Get returns the recipe with live-recomputed line costs and HPP.
func (h *Handler) Get(c *gin.Context) {
	rec, err := h.service(c).View(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rec, err := h.service(c).Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rec, err := h.service(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// Pricing returns the derived selling price. An optional "margin"
// query overrides the stored margin for preview.
func (h *Handler) Pricing(c *gin.Context) {
	var margin *float64
	if raw := c.Query("margin"); raw != "" {
		m, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid margin"})
			return
		}
		margin = &m
	}

	p, err := h.service(c).PricingFor(c.Param("id"), margin)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

// SetPrice accepts a manual price edit. The write itself is
// debounced; rapid edits collapse into one persisted write.
func (h *Handler) SetPrice(c *gin.Context) {
	var req struct {
		Price  string  `json:"price"`
		Margin float64 `json:"margin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Margin == 0 {
		req.Margin = DefaultMargin
	}

	if err := h.service(c).SetManualPrice(c.Param("id"), req.Price, req.Margin); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "price update scheduled"})
}

// BuildLine validates one form line against the ingredient list.
// "ingredients" carries the form's current lines so an ingredient
// cannot be added twice.
func (h *Handler) BuildLine(c *gin.Context) {
	var req struct {
		Name        string           `json:"name"`
		Quantity    float64          `json:"quantity"`
		Unit        string           `json:"unit"`
		Ingredients []IngredientLine `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	line, err := h.service(c).BuildLine(req.Name, req.Quantity, req.Unit, req.Ingredients)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, line)
}

// Import accepts a CSV file under the form field "csv_file".
func (h *Handler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("csv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv_file is required"})
		return
	}
	defer file.Close()

	imported, err := h.service(c).ImportCSV(c.Request.Context(), file)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported})
}

// UploadImage stores a recipe image and appends its URL.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	svc := h.service(c)
	id := c.Param("id")
	if _, ok := svc.Store().Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("recipes/%s/%s%s", id, uuid.New().String(), ext)

	url, err := h.storage.Upload(c.Request.Context(), key, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rec, err := svc.AddImage(c.Request.Context(), id, url)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"imageUris": rec.ImageURIs,
		"url":       url,
	})
}

// --------------------------------------------------
// Draft endpoints (new-recipe form only)
// --------------------------------------------------

func (h *Handler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.service(c).LoadDraft(c.Request.Context()))
}

func (h *Handler) PutDraft(c *gin.Context) {
	var d Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.service(c).SyncDraft(d)
	c.JSON(http.StatusAccepted, gin.H{"message": "draft sync scheduled"})
}

func (h *Handler) DeleteDraft(c *gin.Context) {
	h.service(c).DiscardDraft(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}
