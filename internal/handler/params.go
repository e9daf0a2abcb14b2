package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
	"github.com/noah-isme/signup-sheets-api/pkg/response"
)

// idParam parses a positive numeric path parameter, answering 400 itself
// when it is malformed.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name))
		return 0, false
	}
	return id, true
}

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
}
