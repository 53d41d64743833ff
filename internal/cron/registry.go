package cron

import "context"

// Job is a unit of scheduled work run by the cron worker. Name labels log
// lines and metrics; Run must return promptly once ctx is cancelled.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs the worker cycles through each tick, in
// registration order. Nil jobs are ignored.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy so callers cannot mutate the run order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
