package handler

import (
	"errors"
	"net/http"

	apporder "github.com/distriflow/backend/internal/application/order"
	"github.com/distriflow/backend/internal/domain/shared"
	"github.com/distriflow/backend/internal/interfaces/http/dto"
	"github.com/distriflow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// identity resolves the authenticated caller set by the auth middleware
func identity(c *gin.Context) (apporder.Identity, error) {
	userID, ok := middleware.SessionUserID(c)
	if !ok {
		return apporder.Identity{}, shared.ErrUnauthorized
	}
	role, ok := middleware.SessionRole(c)
	if !ok {
		return apporder.Identity{}, shared.ErrUnauthorized
	}
	return apporder.Identity{ID: userID, Role: role}, nil
}

// pathUUID parses a UUID path parameter
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.NewValidationError("Identifiant invalide")
	}
	return id, nil
}

// listFilter binds pagination query parameters into a repository filter
func listFilter(c *gin.Context) (shared.Filter, error) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, shared.NewValidationError("Paramètres de pagination invalides")
	}
	req.Normalize()
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Paginated sends a success response with pagination meta
func (h *BaseHandler) Paginated(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	requestID := getRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, requestID))
}

// HandleError renders a domain error with its mapped status, or a 500 for
// anything that is not a business-rule failure.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"Une erreur inattendue est survenue",
		requestID,
	))
}
