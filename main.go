package main

import "axiestudio/internal/app"

// @title           AxieStudio API
// @version         1.0
// @description     User accounts with email verification, password reset codes, showcase favorites and a local LLM proxy.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
