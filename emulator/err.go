package emulator

import (
	"errors"

	"github.com/ezrec/duet/translate"
)

var f = translate.From

var (
	// ErrNotRecovered is returned when a single run halts without a recovery.
	ErrNotRecovered = errors.New(f("halted without recovering a value"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Ip     uint
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d ip %d %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrProcess indicates which paired process failed.
type ErrProcess struct {
	Id  ProcessId
	Err error
}

func (err *ErrProcess) Error() string {
	return f("process %v %v", err.Id, err.Err)
}

func (err *ErrProcess) Unwrap() error {
	return err.Err
}
