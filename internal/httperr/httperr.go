package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// statusByCode lists the codes that are not plain 400s.
var statusByCode = map[string]int{
	"slot_already_booked":      http.StatusConflict,
	"email_already_registered": http.StatusConflict,
	"insufficient_stock":       http.StatusConflict,
	"booking_not_found":        http.StatusNotFound,
	"order_not_found":          http.StatusNotFound,
	"product_not_found":        http.StatusNotFound,
	"stylist_not_found":        http.StatusNotFound,
	"service_not_found":        http.StatusNotFound,
	"user_not_found":           http.StatusNotFound,
	"forbidden":                http.StatusForbidden,
	"store_unavailable":        http.StatusServiceUnavailable,
	"storage_disabled":         http.StatusServiceUnavailable,
}

// FromError writes err as JSON. Business errors keep their code and message,
// anything else becomes a 500 with fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, fallbackCode, fallbackMessage)
		return
	}

	status, ok := statusByCode[be.Code]
	if !ok {
		status = http.StatusBadRequest
	}

	msg := be.Message
	if msg == "" {
		msg = be.Code
	}
	Write(c, status, be.Code, msg)
}
