package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/response"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// ClassHandler handles class listing and admin class management.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// Home godoc
// GET /
// Lists all classes along with who is looking at them.
func (h *ClassHandler) Home(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes, "viewer": viewer(c)})
}

// ListClasses godoc
// GET /classes
// GET /addclass
// Lists all classes without pagination.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// AddClass godoc
// POST /addclass
// Creates a new class.
func (h *ClassHandler) AddClass(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		failWith(c, err)
		return
	}

	response.SuccessOrRedirect(c, http.StatusCreated, "/classes", gin.H{"class": class})
}

// ClassDetail godoc
// GET /class/:id
// Returns a class with its submissions grouped by student.
func (h *ClassHandler) ClassDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.classService.Detail(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// DeleteClass godoc
// POST /delete_class/:id
// Deletes a class and every assignment submitted to it.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.SuccessOrRedirect(c, http.StatusOK, "/classes", gin.H{"deleted_id": id})
}
