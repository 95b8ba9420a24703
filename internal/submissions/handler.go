package submissions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coursefit-backend/internal/shared/server/middleware"
	"coursefit-backend/internal/shared/server/respond"
	"coursefit-backend/internal/staff"
)

const maxBodySize = 64 << 10

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the student-facing questionnaire routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.catalog)
	rg.GET("/teachers", h.teachers)
	rg.POST("/recommendations/preview", h.preview)
	rg.POST("/submissions", h.submit)
}

// RegisterStaffRoutes attaches dashboard routes; callers must install staff auth first.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/results", h.list)
	rg.GET("/results/export", h.export)
	rg.GET("/results/export/latest", h.latestSnapshot)
	rg.GET("/results/:id", h.get)
}

func (h *Handler) catalog(c *gin.Context) {
	cat := h.Svc.Catalog
	if raw := c.Query("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "seed must be a non-negative integer", nil)
			return
		}
		cat = cat.Shuffled(seed)
	}
	respond.OK(c, cat)
}

func (h *Handler) teachers(c *gin.Context) {
	respond.OK(c, gin.H{"teachers": h.Svc.Catalog.Teachers})
}

func (h *Handler) preview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	respond.OK(c, previewResponse{
		Recommendation: h.Svc.Preview(req.Answers),
		Completeness:   h.Svc.Catalog.Check(req.Answers),
	})
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	sub, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		Name:      req.Name,
		Teacher:   req.Teacher,
		Answers:   req.Answers,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		var incomplete *IncompleteError
		switch {
		case errors.As(err, &incomplete):
			respond.Error(c, http.StatusUnprocessableEntity, "incomplete_answers", "please answer every question before submitting", incomplete.Completeness)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "could not submit", nil)
		}
		return
	}

	c.Set(middleware.SubmissionIDKey, sub.ID)
	c.Set(middleware.CourseKey, sub.Recommendation.Course)
	respond.JSON(c, http.StatusCreated, sub)
}

// scopeFor maps the authenticated staff role onto a visibility scope.
func scopeFor(c *gin.Context) (Scope, bool) {
	switch staff.Role(middleware.StaffRoleFromContext(c)) {
	case staff.RoleAdmin:
		return Scope{}, true
	case staff.RoleTeacher:
		teacher := middleware.StaffTeacherFromContext(c)
		if teacher == "" {
			return Scope{}, false
		}
		return Scope{Teacher: teacher}, true
	default:
		return Scope{}, false
	}
}

func (h *Handler) list(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "no result scope for this account", nil)
		return
	}

	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	page, err := h.Svc.List(c.Request.Context(), scope, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not load results", nil)
		return
	}
	respond.OK(c, toResultsResponse(page))
}

func (h *Handler) get(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "no result scope for this account", nil)
		return
	}

	sub, err := h.Svc.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "could not load results", nil)
		}
		return
	}
	c.Set(middleware.SubmissionIDKey, sub.ID)
	respond.OK(c, sub)
}

func (h *Handler) export(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "no result scope for this account", nil)
		return
	}
	format, err := ParseFormat(c.Query("format"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	exp, err := h.Svc.Export(c.Request.Context(), scope, format)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not export results", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exp.FileName+`"`)
	c.Data(http.StatusOK, exp.ContentType, exp.Body)
}

func (h *Handler) latestSnapshot(c *gin.Context) {
	scope, ok := scopeFor(c)
	if !ok {
		respond.Error(c, http.StatusForbidden, "forbidden", "no result scope for this account", nil)
		return
	}
	format, err := ParseFormat(c.Query("format"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	rc, err := h.Svc.OpenSnapshot(c.Request.Context(), scope, format)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no snapshot has been written yet", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not load snapshot", nil)
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", `attachment; filename="`+SnapshotName(format)+`"`)
	c.DataFromReader(http.StatusOK, -1, format.ContentType(), rc, nil)
}
