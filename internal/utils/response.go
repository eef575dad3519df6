package utils

import "github.com/gin-gonic/gin"

// ErrorBody is the wire shape for every failed request: {"error": "..."}.
// The game client matches on the message text, so handlers pass the sentinel
// error's own message through rather than rewording it.
type ErrorBody struct {
	Error string `json:"error"`
}

// AbortWithError writes the error body and stops handler processing.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// JSONError writes the error body without aborting the chain.
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}
