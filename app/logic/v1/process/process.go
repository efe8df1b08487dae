package process

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/explainium/explainium/app/core"
)

// Process owns the background side of the service: the extraction worker
// pool and the cron that sweeps documents left behind by a crashed worker.
type Process struct {
	cron   *cron.Cron
	core   *core.Core
	cancel context.CancelFunc
}

var p *Process

func NewProcess(core *core.Core) *Process {
	p = &Process{
		cron: cron.New(),
		core: core,
	}
	return p
}

func (p *Process) Cron() *cron.Cron {
	return p.cron
}

func (p *Process) Core() *core.Core {
	return p.core
}

func (p *Process) Start() {
	concurrency := p.core.Cfg().Process.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	p.cancel = StartDocumentProcess(p.core, concurrency)

	p.cron.AddFunc("@every 1m", func() {
		documentProcess.Flush()
	})
	p.cron.Start()
}

func (p *Process) Stop() {
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
	}
	if p.cancel != nil {
		p.cancel()
	}
}
