package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/lifeos/internal/cli"
	"github.com/dmitrijs2005/lifeos/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(context.Background())
}
