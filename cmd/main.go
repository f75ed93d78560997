package main

import (
	"github.com/vendra/escrow-svc/internal/app"
	"github.com/vendra/escrow-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
