package main

import (
	"fmt"
	"os"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
	"github.com/israel-nogueira/exchange-hub-sub000/routes"
	"github.com/israel-nogueira/exchange-hub-sub000/server"
)

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	cfg, err := config.LoadSimulator(os.Getenv("SIMULATOR_CONFIG"))
	if err != nil {
		config.Logger.Fatalf("load simulator config: %v", err)
	}

	sim, err := exchange.NewSimulated(cfg)
	if err != nil {
		config.Logger.Fatalf("start simulated exchange: %v", err)
	}

	hub := server.NewHub()
	hub.Register(sim)
	defer hub.Close()

	r := routes.SetupRouter(hub)

	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "3000"
	}

	if err := r.Listen(":" + port); err != nil {
		config.Logger.Fatalf("listen: %v", err)
	}
}
