package main

import (
	"log"

	"github.com/campushub/clubs-backend/cmd/app"
	"github.com/campushub/clubs-backend/internal/adapters/config"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()

	a, err := app.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	a.Start()

	select {}
}
