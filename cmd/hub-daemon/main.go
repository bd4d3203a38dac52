package main

import (
	"fmt"
	"os"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
	"github.com/israel-nogueira/exchange-hub-sub000/jobs"
	"github.com/israel-nogueira/exchange-hub-sub000/jobs/cron"
	"github.com/israel-nogueira/exchange-hub-sub000/server"
	"github.com/israel-nogueira/exchange-hub-sub000/workers/daemons"
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

	fmt.Println("Start hub-daemon: ticker_sync")

	worker := daemons.NewCronJob(cfg.SyncInterval, []jobs.Job{&cron.TickerSyncJob{Hub: hub}})
	worker.Start()
}
