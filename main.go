package main

import "pharmacademy/internal/app"

// @title           Pharmacademy Auth API
// @version         1.0
// @description     Authentication hardening backend: stateless captcha, login throttling, OTP password reset.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
