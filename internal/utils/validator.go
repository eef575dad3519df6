package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindAndValidate binds the request body to the given object and validates it.
// If binding or validation fails, it sends the error response and returns
// false; handlers should bail out immediately in that case.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		JSONError(c, http.StatusBadRequest, bindErrorMessage(err))
		return false
	}
	return true
}

func bindErrorMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		e := errs[0]
		switch e.Tag() {
		case "required":
			return fmt.Sprintf("field '%s' is required", e.Field())
		case "gt":
			return fmt.Sprintf("field '%s' must be greater than %s", e.Field(), e.Param())
		case "min":
			return fmt.Sprintf("field '%s' must be at least %s", e.Field(), e.Param())
		case "max":
			return fmt.Sprintf("field '%s' must be at most %s", e.Field(), e.Param())
		default:
			return fmt.Sprintf("field '%s' failed validation on '%s'", e.Field(), e.Tag())
		}
	}
	if jsonErr, ok := err.(*json.UnmarshalTypeError); ok {
		return fmt.Sprintf("field '%s' has invalid type, expected %s", jsonErr.Field, jsonErr.Type.String())
	}
	return "malformed JSON or invalid request body"
}
