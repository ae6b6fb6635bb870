package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-backend/merch"
	"storefront-backend/middleware"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Clock supplies the request time. A nil Clock reads the wall clock.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func loggerFor(log logrus.FieldLogger, c *gin.Context) logrus.FieldLogger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithField("request_id", middleware.RequestID(c))
}

type slotsFullError struct {
	class merch.Class
}

func (e *slotsFullError) Error() string {
	return fmt.Sprintf("all %d %s slots are taken", e.class.Capacity, e.class.Name)
}

// respondError maps engine and storage errors onto HTTP statuses. Anything
// unrecognised is logged and reported as fallback with a 500.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	var (
		invalid *merch.ValidationError
		full    *slotsFullError
	)

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason})
	case errors.Is(err, merch.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &full):
		c.JSON(http.StatusConflict, gin.H{"error": full.Error()})
	case errors.Is(err, merch.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Modified by another request, reload and try again"})
	default:
		loggerFor(log, c).WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return false
	}
	return true
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// notFoundAs turns gorm's missing-row error into the engine's NotFoundError.
func notFoundAs(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &merch.NotFoundError{Kind: kind, ID: id.String()}
	}
	return err
}

// updateVersioned writes fields only if the row is still at version, and
// bumps the version.
func updateVersioned(tx *gorm.DB, model interface{}, id uuid.UUID, version int, fields map[string]interface{}) error {
	fields["version"] = version + 1
	res := tx.Model(model).Where("id = ? AND version = ?", id, version).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return merch.ErrConflict
	}
	return nil
}
