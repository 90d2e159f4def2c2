package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
)

// writeBusinessOrInternal maps a business error to a 400 carrying its code,
// anything else to a 500 with the given fallback.
func writeBusinessOrInternal(c *gin.Context, err error, code, message string) {
	if bc := httperr.BusinessCode(err); bc != "" {
		httperr.BadRequest(c, bc, err.Error())
		return
	}
	httperr.Internal(c, code, message)
}
