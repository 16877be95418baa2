package captcha

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

const (
	sliderWidth  = 280
	sliderHeight = 160
	pieceSize    = 42
)

type SliderChallenge struct {
	BackgroundSVG string
	PieceSVG      string
	Y             int
	Token         string
}

// SliderIssuer выдаёт позиционную капчу: клиент двигает кусочек к вырезу,
// целевой X зашит в подписанный токен. Совпадение с допуском в пикселях.
type SliderIssuer struct {
	codec     *Codec
	ttl       time.Duration
	tolerance int
	randInt   func(n int) int
}

func NewSliderIssuer(codec *Codec, ttl time.Duration, tolerance int) *SliderIssuer {
	if tolerance <= 0 {
		tolerance = 5
	}
	return &SliderIssuer{
		codec:     codec,
		ttl:       ttl,
		tolerance: tolerance,
		randInt:   rand.Intn,
	}
}

func (s *SliderIssuer) Generate() *SliderChallenge {
	// вырез не прижимаем к краям, иначе решается на упор
	minX := pieceSize + s.tolerance
	maxX := sliderWidth - pieceSize - s.tolerance
	targetX := minX + s.randInt(maxX-minX)
	y := 20 + s.randInt(sliderHeight-pieceSize-40)

	return &SliderChallenge{
		BackgroundSVG: backgroundSVG(targetX, y),
		PieceSVG:      pieceSVG(y),
		Y:             y,
		Token:         s.codec.Issue(strconv.Itoa(targetX), s.ttl),
	}
}

func (s *SliderIssuer) Verify(x int, token string) bool {
	payload, ok := s.codec.Payload(token)
	if !ok {
		return false
	}
	targetX, err := strconv.Atoi(payload)
	if err != nil {
		return false
	}
	diff := x - targetX
	if diff < 0 {
		diff = -diff
	}
	return diff <= s.tolerance
}

func backgroundSVG(targetX, y int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
		`<defs><linearGradient id="bg" x1="0" y1="0" x2="1" y2="1">`+
		`<stop offset="0%%" stop-color="#e0f2fe"/><stop offset="100%%" stop-color="#bae6fd"/>`+
		`</linearGradient></defs>`+
		`<rect width="%d" height="%d" fill="url(#bg)"/>`+
		`<rect x="%d" y="%d" width="%d" height="%d" rx="6" fill="#0f172a" fill-opacity="0.35" stroke="#0f172a" stroke-opacity="0.5"/>`+
		`</svg>`,
		sliderWidth, sliderHeight, sliderWidth, sliderHeight, targetX, y, pieceSize, pieceSize)
}

func pieceSVG(y int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
		`<rect x="0" y="%d" width="%d" height="%d" rx="6" fill="#38bdf8" stroke="#0284c7" stroke-width="2"/>`+
		`</svg>`,
		pieceSize, sliderHeight, y, pieceSize, pieceSize)
}
