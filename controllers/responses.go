package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ambujpandey123/Ecommerce-Backend/apperrors"
	"github.com/ambujpandey123/Ecommerce-Backend/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondData wraps a payload in the success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondMessage wraps a confirmation in the success envelope.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// NotFoundRoute answers requests to unregistered paths with the standard
// failure envelope instead of gin's plain-text 404.
func NotFoundRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   "Not Found",
		"message": fmt.Sprintf("Route %s not found", c.Request.URL.RequestURI()),
	})
}

// RespondError maps a classified error onto a status code and failure
// envelope. Unclassified failures stay opaque outside release mode.
func RespondError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation Error",
			"details": validationErr.Fields,
		})
		return
	}

	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Not Found",
			"message": notFoundErr.Message,
		})
		return
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Conflict",
			"message": conflictErr.Message,
		})
		return
	}

	var foreignKeyErr *apperrors.ForeignKeyError
	if errors.As(err, &foreignKeyErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Bad Request",
			"message": foreignKeyErr.Message,
		})
		return
	}

	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Insufficient Stock",
			"message": stockErr.Message,
		})
		return
	}

	zap.L().Error("Unhandled service error",
		zap.Error(err),
		zap.String("request_id", c.GetString(logger.RequestIDKey)),
		zap.String("path", c.FullPath()),
	)

	message := "Something went wrong"
	if gin.Mode() != gin.ReleaseMode {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal Server Error",
		"message": message,
	})
}
