// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package processor

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Run executes instructions, one per clock interval, until the processor
// halts, is stopped, or an instruction faults. A fault stops the processor
// before it is returned. Run does nothing if already running.
func (p *Processor) Run() error {
	return p.RunContext(context.Background())
}

// RunContext is Run, also ending when ctx is done.
func (p *Processor) RunContext(ctx context.Context) (err error) {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	defer func() {
		p.started.Store(nil)
		p.running.Store(false)
	}()

	started := p.clock.Now()
	p.started.Store(&started)

	for p.running.Load() {
		if ctx.Err() != nil {
			break
		}

		if !p.clock.Update() {
			runtime.Gosched()
			continue
		}

		stepping := p.stepping.Swap(false)
		if p.paused.Load() && !stepping {
			continue
		}

		var halted bool
		halted, err = p.Tick()
		if err != nil {
			p.running.Store(false)
			p.Log.WithError(err).Error(f("processor stopped"))
			return
		}

		if halted {
			p.Stop()
		}
	}

	return
}

// Tick runs a single fetch, decode, advance, execute cycle without waiting
// for the clock. The instruction pointer moves past the instruction before it
// executes, so jumps overwrite it. halted is set when the instruction pointer
// is outside of memory, or when the instruction ran off the end of memory
// without writing the instruction pointer.
func (p *Processor) Tick() (halted bool, err error) {
	ip := int(p.ip.Value())
	if ip >= p.memory.Size() {
		halted = true
		return
	}

	opcode, err := p.memory.Get(ip)
	if err != nil {
		return
	}

	inst, ok := p.set.Instruction(opcode)
	if !ok {
		err = &ErrUnknownInstruction{Address: ip, Opcode: opcode}
		return
	}

	keyword := inst.Keyword()
	p.history.Put(ip, keyword)
	next := ip + inst.WordLength()
	p.ip.SetValue(uint32(next))

	args, err := p.memory.GetRange(ip+1, inst.ArgumentCount())
	if err == nil {
		if p.Verbose {
			p.Log.WithFields(logrus.Fields{
				"ip":      ip,
				"keyword": keyword,
				"args":    args,
			}).Debug(f("tick"))
		}
		err = inst.Execute(p, args)
	}
	if err != nil {
		err = &ErrExecution{Keyword: keyword, Address: ip, Err: err}
		return
	}

	// The advanced IP may have wrapped to a low address.
	if next >= p.memory.Size() && p.ip.Value() == uint32(next)&p.memory.Word().Mask {
		halted = true
	}

	return
}

// Stop ends Run after the current cycle.
func (p *Processor) Stop() {
	p.running.Store(false)
}

// Pause suspends execution; Run keeps polling the clock.
func (p *Processor) Pause() {
	p.paused.Store(true)
}

// Resume continues a paused processor.
func (p *Processor) Resume() {
	p.paused.Store(false)
}

// Step lets a paused processor run exactly one cycle on the next tick.
func (p *Processor) Step() {
	p.stepping.Store(true)
}

// IsRunning reports whether Run is executing.
func (p *Processor) IsRunning() bool {
	return p.running.Load()
}

// IsPaused reports whether execution is paused.
func (p *Processor) IsPaused() bool {
	return p.paused.Load()
}
