package main

import "memberhub_backend/internal/app"

func main() {
	app.Run()
}
