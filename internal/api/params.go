package api

import (
	"alcyxob/sportlink/internal/repository"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDParam parses a path parameter. On failure it has already answered.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Query parameter '"+name+"' must be an integer.")
		return 0, false
	}
	return n, true
}

// pageQuery reads ?limit=N&before=RFC3339&beforeId=hex. beforeId is the
// ID of the last item seen and only counts together with before.
func pageQuery(c *gin.Context) (repository.Page, bool) {
	var page repository.Page
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return page, false
	}
	if limit < 0 {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'limit' cannot be negative.")
		return page, false
	}
	page.Limit = limit
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Query parameter 'before' must be an RFC3339 timestamp.")
			return page, false
		}
		page.Before = before
	}
	if raw := c.Query("beforeId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Query parameter 'beforeId' must be an object ID.")
			return page, false
		}
		if page.Before.IsZero() {
			abortWithError(c, http.StatusBadRequest, "Query parameter 'beforeId' requires 'before'.")
			return page, false
		}
		page.BeforeID = id
	}
	return page.Normalize(), true
}

type uploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type objectKeyRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}
