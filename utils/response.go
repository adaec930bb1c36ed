// utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error half of the response envelope. Instances are built
// per error by the factory functions below; there is no shared error value.
type APIError struct {
	Code     string `json:"error-code"`
	HTTPCode int    `json:"error-http-code"`
	Message  string `json:"error-message"`
	List     any    `json:"error-list,omitempty"`
	Data     any    `json:"error-data,omitempty"`
}

func NewAPIError(code string, httpCode int, message string) APIError {
	return APIError{Code: code, HTTPCode: httpCode, Message: message}
}

func (e APIError) WithList(list any) APIError {
	e.List = list
	return e
}

func (e APIError) WithData(data any) APIError {
	e.Data = data
	return e
}

// RespondSuccess writes {"status":"success","result":...}.
func RespondSuccess(c *gin.Context, httpCode int, result any) {
	c.JSON(httpCode, gin.H{
		"status": "success",
		"result": result,
	})
}

// RespondError writes {"status":"error","error":{...}}.
func RespondError(c *gin.Context, err APIError) {
	c.JSON(err.HTTPCode, gin.H{
		"status": "error",
		"error":  err,
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err APIError) {
	RespondError(c, err)
	c.Abort()
}

// InternalError is the catch-all 500. The underlying cause is logged server
// side only, never sent to the caller.
func InternalError(c *gin.Context) {
	RespondError(c, NewAPIError("server-error", http.StatusInternalServerError, "Unknown server error"))
}

// RecoveryHandler coerces panics into the generic 500 envelope.
func RecoveryHandler(c *gin.Context, _ any) {
	InternalError(c)
	c.Abort()
}
