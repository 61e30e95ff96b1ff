package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dapurku/internal/localstore"
)

type Handler struct {
	service *Service
	local   *localstore.Store
}

func NewHandler(service *Service, local *localstore.Store) *Handler {
	return &Handler{service: service, local: local}
}

// cacheUserName mirrors the display name into the local store so the
// greeting survives without a database round trip. Best effort.
func (h *Handler) cacheUserName(c *gin.Context, userID, name string) {
	if h.local == nil {
		return
	}
	key := localstore.UserKey(userID, localstore.KeyUserName)
	if err := h.local.Put(c.Request.Context(), key, []byte(name)); err != nil {
		log.Println("failed to cache user name:", err)
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.cacheUserName(c, user.ID, user.Name)

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.cacheUserName(c, user.ID, user.Name)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Profile returns the caller's display name from the local store,
// falling back to the user record when the cache is cold.
func (h *Handler) Profile(c *gin.Context) {
	userID := c.GetString("userID")

	if h.local != nil {
		key := localstore.UserKey(userID, localstore.KeyUserName)
		if name, err := h.local.Get(c.Request.Context(), key); err == nil {
			c.JSON(http.StatusOK, gin.H{"name": string(name)})
			return
		}
	}

	user, err := h.service.repo.FindByEmail(c.GetString("email"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	h.cacheUserName(c, userID, user.Name)
	c.JSON(http.StatusOK, gin.H{"name": user.Name})
}

// UpdateProfile stores a new display name.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if h.local == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile store not configured"})
		return
	}

	userID := c.GetString("userID")
	key := localstore.UserKey(userID, localstore.KeyUserName)
	if err := h.local.Put(c.Request.Context(), key, []byte(strings.TrimSpace(req.Name))); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save name"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": strings.TrimSpace(req.Name)})
}
