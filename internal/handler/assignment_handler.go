package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/response"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// AssignmentHandler handles submission and upkeep of a student's own assignments.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	classService      *service.ClassService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService, classService *service.ClassService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		classService:      classService,
	}
}

// SubmitForm godoc
// GET /submit
// Lists the classes an assignment can be submitted to.
func (h *AssignmentHandler) SubmitForm(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Submit godoc
// POST /submit
// Records an assignment URL for a class.
func (h *AssignmentHandler) Submit(c *gin.Context) {
	var req model.SubmitAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, err := h.assignmentService.Submit(c.Request.Context(), middleware.CurrentUser(c), req.ClassID, req.URL)
	if err != nil {
		failWith(c, err)
		return
	}

	response.SuccessOrRedirect(c, http.StatusCreated, "/submit", gin.H{"assignment": assignment})
}

// MyAssignments godoc
// GET /my_assignments
// Lists the caller's own assignments.
func (h *AssignmentHandler) MyAssignments(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	assignments, err := h.assignmentService.ListByStudent(c.Request.Context(), user.ID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// EditForm godoc
// GET /update_assignment/:id
// Returns one of the caller's assignments for editing.
func (h *AssignmentHandler) EditForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// updateAssignmentBody is bound without validation tags so that a missing
// assignment or a foreign one is reported before a malformed URL.
type updateAssignmentBody struct {
	URL string `json:"url" form:"url"`
}

// Update godoc
// POST /update_assignment/:id
// Replaces the URL of one of the caller's assignments.
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// An unreadable body is validated as an empty URL, after the existence
	// and ownership checks in the service.
	var body updateAssignmentBody
	if err := c.ShouldBind(&body); err != nil {
		body.URL = ""
	}

	assignment, err := h.assignmentService.Update(c.Request.Context(), middleware.CurrentUser(c), id, body.URL)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.SuccessOrRedirect(c, http.StatusOK, "/my_assignments", gin.H{"assignment": assignment})
}

// Delete godoc
// POST /delete_assignment/:id
// Deletes one of the caller's assignments.
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		h.fail(c, err)
		return
	}

	response.SuccessOrRedirect(c, http.StatusOK, "/my_assignments", gin.H{"deleted_id": id})
}

func (h *AssignmentHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrForbidden) {
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		return
	}
	failWith(c, err)
}
