package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacademy/internal/captcha"
)

type CaptchaHandler struct {
	text   *captcha.TextIssuer
	slider *captcha.SliderIssuer
}

func NewCaptchaHandler(text *captcha.TextIssuer, slider *captcha.SliderIssuer) *CaptchaHandler {
	return &CaptchaHandler{text: text, slider: slider}
}

// @Summary      Issue a text captcha
// @Description  Returns a distorted-text image and a signed stateless token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /auth/captcha [get]
func (h *CaptchaHandler) GetTextCaptcha(c *gin.Context) {
	ch, err := h.text.Generate()
	if err != nil {
		log.Printf("[captcha][text] generate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate captcha"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"image":   ch.ImageB64,
		"token":   ch.Token,
	})
}

// @Summary      Issue a slider captcha
// @Description  Returns background/piece SVGs, the piece Y position and a signed token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/captcha/slider [get]
func (h *CaptchaHandler) GetSliderCaptcha(c *gin.Context) {
	ch := h.slider.Generate()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bg_svg":    ch.BackgroundSVG,
		"piece_svg": ch.PieceSVG,
		"y":         ch.Y,
		"token":     ch.Token,
	})
}
