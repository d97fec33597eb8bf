package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sarathradhan/social-media-app/pkg/errs"
)

// respondError is the single place errors become HTTP responses. Internal
// failures are logged server-side and surface as a generic 500.
func respondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case errs.NotFound:
		status = http.StatusNotFound
	case errs.Unauthorized:
		status = http.StatusUnauthorized
	case errs.Conflict:
		status = http.StatusConflict
	case errs.Invalid:
		status = http.StatusBadRequest
	}

	if kind == errs.Internal {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": errs.Message(err)})
}
