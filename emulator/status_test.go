package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessStatus_Update(t *testing.T) {
	assert := assert.New(t)

	ps := &ProcessStatus{Id: PROCESS_B}
	assert.Equal(STATE_RUNNING, ps.State())
	assert.False(ps.Halted())

	// Notices for the peer are ignored.
	ps.Update(Notice{Kind: NOTICE_BLOCKED, Id: PROCESS_A})
	ps.Update(Notice{Kind: NOTICE_SENT_MESSAGE, Id: PROCESS_A})
	assert.Equal(ProcessStatus{Id: PROCESS_B}, *ps)

	ps.Update(Notice{Kind: NOTICE_BLOCKED, Id: PROCESS_B})
	assert.True(ps.Blocked)
	assert.True(ps.Halted())
	assert.Equal(STATE_BLOCKED, ps.State())

	ps.Update(Notice{Kind: NOTICE_UNBLOCKED, Id: PROCESS_B})
	assert.False(ps.Blocked)
	assert.False(ps.Halted())

	ps.Update(Notice{Kind: NOTICE_SENT_MESSAGE, Id: PROCESS_B})
	ps.Update(Notice{Kind: NOTICE_SENT_MESSAGE, Id: PROCESS_B})
	assert.Equal(2, ps.Sent)

	ps.Update(Notice{Kind: NOTICE_TERMINATED, Id: PROCESS_B})
	assert.True(ps.Halted())
	assert.Equal(STATE_TERMINATED, ps.State())

	// Unblocking does not revive a terminated process.
	ps.Update(Notice{Kind: NOTICE_UNBLOCKED, Id: PROCESS_B})
	assert.True(ps.Halted())
}

func TestProcessId(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(PROCESS_B, PROCESS_A.Other())
	assert.Equal(PROCESS_A, PROCESS_B.Other())
	assert.Equal("a", PROCESS_A.String())
	assert.Equal("b", PROCESS_B.String())
	assert.Equal("ProcessId(5)", ProcessId(5).String())
}

func TestNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("blocked", NOTICE_BLOCKED.String())
	assert.Equal("unblocked", NOTICE_UNBLOCKED.String())
	assert.Equal("terminated", NOTICE_TERMINATED.String())
	assert.Equal("sent", NOTICE_SENT_MESSAGE.String())
	assert.Equal("NoticeKind(-1)", NoticeKind(-1).String())

	assert.Equal("running", STATE_RUNNING.String())
	assert.Equal("blocked", STATE_BLOCKED.String())
	assert.Equal("terminated", STATE_TERMINATED.String())
	assert.Equal("State(3)", State(3).String())
}
