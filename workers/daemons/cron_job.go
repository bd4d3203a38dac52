package daemons

import (
	"github.com/jasonlvhit/gocron"

	"github.com/israel-nogueira/exchange-hub-sub000/jobs"
)

type Worker interface {
	Start()
	Stop()
}

// CronJob runs the registered jobs on a fixed schedule until stopped.
type CronJob struct {
	Interval uint64
	Jobs     []jobs.Job
}

func NewCronJob(interval uint64, jobs []jobs.Job) *CronJob {
	if interval == 0 {
		interval = 5
	}

	return &CronJob{Interval: interval, Jobs: jobs}
}

func (c *CronJob) Start() {
	for _, job := range c.Jobs {
		gocron.Every(c.Interval).Seconds().Do(job.Process)
	}

	<-gocron.Start()
}

func (c *CronJob) Stop() {
	gocron.Clear()
}
