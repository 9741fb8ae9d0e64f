package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bytebeat/bytebeat-api/internal/application"
	"github.com/bytebeat/bytebeat-api/internal/interface/middleware"
	"github.com/bytebeat/bytebeat-api/pkg/response"
	"github.com/bytebeat/bytebeat-api/pkg/validation"
)

// UserHandler serves the caller's profile plus the admin surface of the
// identity directory.
type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar" binding:"omitempty,url"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	u, err := h.Svc.GetProfile(c.Request.Context(), caller.ID)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), caller.ID, application.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.Avatar,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile updated", nil)
}

// UploadAvatar stores the avatar in GCS and saves the resulting URL.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	caller, _ := middleware.CallerFrom(c)
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), caller.ID, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar": url}, "avatar uploaded", nil)
}

// Delete removes a user from the directory. Admin only; the role gate is
// enforced by middleware on the route.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{}, "user deleted", nil)
}
