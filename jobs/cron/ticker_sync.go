package cron

import (
	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/server"
)

// TickerSyncJob reads every symbol's ticker on each run. On the simulated
// exchange a ticker read is a price observation, so the job is what keeps
// prices moving and resting orders matching while no client is polling.
type TickerSyncJob struct {
	Hub *server.Hub
}

func (j *TickerSyncJob) Process() {
	for _, name := range j.Hub.Names() {
		ex := j.Hub.Get(name)

		symbols, err := ex.Symbols()
		if err != nil {
			config.Logger.Errorf("[cron] %s symbols: %v", name, err)
			continue
		}

		for _, symbol := range symbols {
			ticker, err := ex.Ticker(symbol)
			if err != nil {
				config.Logger.Errorf("[cron] %s %s ticker: %v", name, symbol, err)
				continue
			}

			config.Logger.Debugf("[cron] %s %s price %s", name, symbol, ticker.Price)
		}
	}
}
