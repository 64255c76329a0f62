// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/io"
)

const (
	ID_REGISTER = cpu.Register('p') // Register preset to the process id.
)

// Process is one of the two paired CPUs.
type Process struct {
	Id  ProcessId
	Cpu *cpu.Cpu

	In  io.Channel // Values from the peer.
	Out io.Channel // Values to the peer.
}

// effects binds a process to the context of a run.
type effects struct {
	ctx  context.Context
	proc *Process
}

var _ cpu.Effects = (*effects)(nil)

// Emit sends a value to the peer.
func (fx *effects) Emit(value int64) error {
	return fx.proc.Out.Send(fx.ctx, value)
}

// Receive waits for a value from the peer, and stores it if the operand
// is a register.
func (fx *effects) Receive(arg cpu.Operand) (err error) {
	value, err := fx.proc.In.Receive(fx.ctx)
	if err != nil {
		return
	}

	if arg.IsRegister() {
		fx.proc.Cpu.Register.Set(arg.Register, value)
	}

	return
}

// run ticks the process until it halts, fails, or the run is torn down.
func (proc *Process) run(ctx context.Context, notices chan<- Notice) (err error) {
	fx := &effects{ctx: ctx, proc: proc}

	for {
		if ctx.Err() != nil {
			return nil
		}

		ip := proc.Cpu.Ip
		err = proc.Cpu.Tick(fx)
		if errors.Is(err, cpu.ErrIpHalted) {
			notify(ctx, notices, Notice{Kind: NOTICE_TERMINATED, Id: proc.Id})
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				// Abandoned while waiting on the peer.
				return nil
			}
			err = &ErrRuntime{LineNo: proc.Cpu.Program.LineNo(ip), Ip: ip, Err: err}
			return &ErrProcess{Id: proc.Id, Err: err}
		}
	}
}

// notify delivers a notice, unless the run has been torn down.
func notify(ctx context.Context, notices chan<- Notice, notice Notice) {
	select {
	case notices <- notice:
	case <-ctx.Done():
	}
}

// link reports the hand-offs of the queue from sender to receiver.
type link struct {
	sender   ProcessId
	receiver ProcessId
	notices  chan<- Notice
}

var _ io.Watcher = (*link)(nil)

// Blocked reports the receiver waiting on an empty queue.
func (ln *link) Blocked(ctx context.Context) {
	notify(ctx, ln.notices, Notice{Kind: NOTICE_BLOCKED, Id: ln.receiver})
}

// Sending reports the receiver as unblocked, and counts the sent value.
func (ln *link) Sending(ctx context.Context) {
	notify(ctx, ln.notices, Notice{Kind: NOTICE_UNBLOCKED, Id: ln.receiver})
	notify(ctx, ln.notices, Notice{Kind: NOTICE_SENT_MESSAGE, Id: ln.sender})
}

// Duet runs two copies of a program that exchange values, and a
// coordinator that stops the run once both copies are blocked or halted.
type Duet struct {
	Verbose bool         // If set, enables verbose CPU logging.
	Logger  *slog.Logger // Coordinator notice log. Nil discards.
	Program *cpu.Program // Reference to the program both processes run.

	Process [2]*Process      // Processes, indexed by ProcessId.
	Status  [2]ProcessStatus // Coordinator view, indexed by ProcessId.
	Notices int              // Count of notices processed.
}

// NewDuet creates a paired runtime for a program.
func NewDuet(prog *cpu.Program) (duet *Duet) {
	duet = &Duet{
		Program: prog,
	}

	return
}

func (duet *Duet) logger() *slog.Logger {
	if duet.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return duet.Logger
}

// Reset the runtime state, wiring fresh processes to a notice channel.
// The 'p' register of each process is preset to its id.
func (duet *Duet) Reset(notices chan<- Notice) {
	queues := [2]*io.Queue{}
	for id := range queues {
		// queues[id] carries values into process id.
		receiver := ProcessId(id)
		queues[id] = io.NewQueue(&link{
			sender:   receiver.Other(),
			receiver: receiver,
			notices:  notices,
		})
	}

	for n := range duet.Process {
		id := ProcessId(n)
		cp := cpu.NewCpu(duet.Program)
		cp.Verbose = duet.Verbose
		cp.Reset()
		cp.Register.Set(ID_REGISTER, int64(id))

		duet.Process[id] = &Process{
			Id:  id,
			Cpu: cp,
			In:  queues[id],
			Out: queues[id.Other()],
		}
		duet.Status[id] = ProcessStatus{Id: id}
	}

	duet.Notices = 0
}

// Halted returns true if neither process can make progress.
func (duet *Duet) Halted() bool {
	return duet.Status[PROCESS_A].Halted() && duet.Status[PROCESS_B].Halted()
}

// coordinate applies notices in arrival order until both processes halt.
func (duet *Duet) coordinate(ctx context.Context, notices <-chan Notice) (err error) {
	logger := duet.logger()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notice := <-notices:
			duet.Notices++
			for n := range duet.Status {
				duet.Status[n].Update(notice)
			}
			status := duet.Status[notice.Id]
			logger.Debug("notice",
				"kind", notice.Kind.String(),
				"process", notice.Id.String(),
				"state", status.State().String(),
				"sent", status.Sent,
			)
			if duet.Halted() {
				return nil
			}
		}
	}
}

// Run both processes until they are jointly blocked or halted, and return
// the number of values sent by process A.
func (duet *Duet) Run() (sent int, err error) {
	logger := duet.logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices := make(chan Notice)
	duet.Reset(notices)

	group, gctx := errgroup.WithContext(ctx)
	for _, proc := range duet.Process {
		group.Go(func() error {
			return proc.run(gctx, notices)
		})
	}

	err = duet.coordinate(gctx, notices)

	// Abandon any process still waiting.
	cancel()
	gerr := group.Wait()
	if gerr != nil {
		err = gerr
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		return
	}

	for _, status := range duet.Status {
		logger.Info("halted",
			"process", status.Id.String(),
			"state", status.State().String(),
			"sent", status.Sent,
			"ticks", duet.Process[status.Id].Cpu.Ticks,
		)
	}

	sent = duet.Status[PROCESS_A].Sent
	return
}

// RunDual runs a program as two paired processes and returns the number of
// values sent by process A.
func RunDual(prog *cpu.Program) (sent int, err error) {
	return NewDuet(prog).Run()
}
