package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacademy/internal/services"
)

func getStringFromCtx(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// respondLoginError разворачивает AuthError в тело с field/requires_captcha,
// всё остальное — 500 без деталей.
func respondLoginError(c *gin.Context, err error) {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		body := gin.H{
			"success": false,
			"error":   authErr.Error(),
			"field":   authErr.Field,
		}
		if authErr.RequiresCaptcha {
			body["requires_captcha"] = true
		}
		c.JSON(http.StatusUnauthorized, body)
		return
	}
	log.Printf("[auth][login] internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
}
