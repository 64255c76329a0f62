package emulator

import (
	"strconv"
)

// ProcessId names one of the two paired processes.
type ProcessId int

const (
	PROCESS_A = ProcessId(0) // a
	PROCESS_B = ProcessId(1) // b
)

// Other returns the peer process.
func (id ProcessId) Other() ProcessId {
	return 1 - id
}

func (id ProcessId) String() string {
	switch id {
	case PROCESS_A:
		return "a"
	case PROCESS_B:
		return "b"
	}
	return "ProcessId(" + strconv.Itoa(int(id)) + ")"
}

// NoticeKind is the type of status change a process reports.
type NoticeKind int

const (
	NOTICE_BLOCKED      = NoticeKind(0) // blocked
	NOTICE_UNBLOCKED    = NoticeKind(1) // unblocked
	NOTICE_TERMINATED   = NoticeKind(2) // terminated
	NOTICE_SENT_MESSAGE = NoticeKind(3) // sent
)

var _notice_names = [...]string{
	NOTICE_BLOCKED:      "blocked",
	NOTICE_UNBLOCKED:    "unblocked",
	NOTICE_TERMINATED:   "terminated",
	NOTICE_SENT_MESSAGE: "sent",
}

func (kind NoticeKind) String() string {
	if kind < 0 || int(kind) >= len(_notice_names) {
		return "NoticeKind(" + strconv.Itoa(int(kind)) + ")"
	}
	return _notice_names[kind]
}

// Notice is a status change report sent to the coordinator.
type Notice struct {
	Kind NoticeKind
	Id   ProcessId // Process whose status changed.
}

// State is the liveness of a process as seen by the coordinator.
type State int

const (
	STATE_RUNNING    = State(0) // running
	STATE_BLOCKED    = State(1) // blocked
	STATE_TERMINATED = State(2) // terminated
)

func (state State) String() string {
	switch state {
	case STATE_RUNNING:
		return "running"
	case STATE_BLOCKED:
		return "blocked"
	case STATE_TERMINATED:
		return "terminated"
	}
	return "State(" + strconv.Itoa(int(state)) + ")"
}

// ProcessStatus is the coordinator's view of one process.
type ProcessStatus struct {
	Id         ProcessId
	Blocked    bool // Waiting on an empty receive queue.
	Terminated bool // Ran off the end of the program.
	Sent       int  // Number of values sent.
}

// Update applies a notice. Notices for other processes are ignored.
func (ps *ProcessStatus) Update(notice Notice) {
	if notice.Id != ps.Id {
		return
	}

	switch notice.Kind {
	case NOTICE_BLOCKED:
		ps.Blocked = true
	case NOTICE_UNBLOCKED:
		ps.Blocked = false
	case NOTICE_TERMINATED:
		ps.Terminated = true
	case NOTICE_SENT_MESSAGE:
		ps.Sent++
	}
}

// Halted returns true if the process cannot make progress by itself.
func (ps ProcessStatus) Halted() bool {
	return ps.Blocked || ps.Terminated
}

// State returns the process liveness. Termination wins over blocking.
func (ps ProcessStatus) State() State {
	switch {
	case ps.Terminated:
		return STATE_TERMINATED
	case ps.Blocked:
		return STATE_BLOCKED
	default:
		return STATE_RUNNING
	}
}
