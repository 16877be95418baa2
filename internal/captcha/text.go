package captcha

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/mojocn/base64Captcha"
)

// символы без визуально похожих пар (0/O, 1/l, ...)
const textCharset = "234578acdefhkmnprtuvwxy"

type TextChallenge struct {
	ImageB64 string
	Token    string
}

// TextIssuer выдаёт текстовую капчу: искажённая картинка + подписанный токен
// с ответом в нижнем регистре.
type TextIssuer struct {
	codec  *Codec
	ttl    time.Duration
	driver *base64Captcha.DriverString
}

func NewTextIssuer(codec *Codec, ttl time.Duration) *TextIssuer {
	driver := base64Captcha.NewDriverString(
		48, 120, 2,
		base64Captcha.OptionShowHollowLine,
		4,
		textCharset,
		&color.RGBA{R: 240, G: 249, B: 255, A: 255},
		nil, nil,
	).ConvertFonts()
	return &TextIssuer{codec: codec, ttl: ttl, driver: driver}
}

func (t *TextIssuer) Generate() (*TextChallenge, error) {
	_, content, answer := t.driver.GenerateIdQuestionAnswer()
	item, err := t.driver.DrawCaptcha(content)
	if err != nil {
		return nil, fmt.Errorf("draw captcha: %w", err)
	}
	return &TextChallenge{
		ImageB64: item.EncodeB64string(),
		Token:    t.codec.Issue(strings.ToLower(answer), t.ttl),
	}, nil
}

// Verify регистронезависимо сравнивает ответ пользователя с вложенным в токен.
func (t *TextIssuer) Verify(answer, token string) bool {
	return t.codec.Verify(strings.ToLower(strings.TrimSpace(answer)), token)
}
