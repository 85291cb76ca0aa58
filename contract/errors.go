package contract

import (
	"errors"
	"fmt"
)

type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Error Code: %d]", ec)
}

const (
	ErrCodeAccessDenied         ErrorCode = 1000
	ErrCodeSlotAlreadyCommitted ErrorCode = 1001
	ErrCodeOutOfTurn            ErrorCode = 1002
	ErrCodeNotActive            ErrorCode = 1003
	ErrCodeInvalidTransition    ErrorCode = 1004
	ErrCodeGameNotFound         ErrorCode = 1005
	ErrCodeInvalidMove          ErrorCode = 1006
	ErrCodeInvalidEvent         ErrorCode = 1007
	ErrCodeInvalidTrace         ErrorCode = 1008
	ErrCodeStaleState           ErrorCode = 1009
	ErrCodeTimeoutNotReached    ErrorCode = 1010
	ErrCodeInvalidArgument      ErrorCode = 1011
)

// CodedError is an error a contract call can fail with. The code is stable
// and safe to match on; the message is for humans.
type CodedError interface {
	Code() ErrorCode
	error
}

type codedError struct {
	code ErrorCode
	err  error
}

// NewCodedError formats the message like fmt.Errorf, so %w wraps a cause.
func NewCodedError(code ErrorCode, format string, args ...interface{}) CodedError {
	return codedError{
		code: code,
		err:  fmt.Errorf(format, args...),
	}
}

func (err codedError) Error() string {
	return fmt.Sprintf("%v %v", err.code, err.err)
}

func (err codedError) Unwrap() error { return err.err }

func (err codedError) Code() ErrorCode { return err.code }

// HasErrorCode reports whether any coded error in err's chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var coded CodedError
		if !errors.As(err, &coded) {
			return false
		}
		if coded.Code() == code {
			return true
		}
		err = errors.Unwrap(coded)
	}
	return false
}

// NewAccessDeniedErrorf indicates a commitment, password or caller identity
// did not match. It never says which check failed.
func NewAccessDeniedErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeAccessDenied, "access denied: "+msg, args...)
}

// IsAccessDeniedError reports whether err carries the access denied code.
func IsAccessDeniedError(err error) bool {
	return HasErrorCode(err, ErrCodeAccessDenied)
}

// NewSlotAlreadyCommittedErrorf indicates a secret or password slot was already filled.
func NewSlotAlreadyCommittedErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeSlotAlreadyCommitted, "slot already committed: "+msg, args...)
}

// IsSlotAlreadyCommittedError reports whether err carries the slot already committed code.
func IsSlotAlreadyCommittedError(err error) bool {
	return HasErrorCode(err, ErrCodeSlotAlreadyCommitted)
}

// NewOutOfTurnErrorf indicates the caller acted while it was the other color's turn.
func NewOutOfTurnErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeOutOfTurn, "out of turn: "+msg, args...)
}

// IsOutOfTurnError reports whether err carries the out of turn code.
func IsOutOfTurnError(err error) bool {
	return HasErrorCode(err, ErrCodeOutOfTurn)
}

// NewNotActiveErrorf indicates the game is not in the status the call needs.
func NewNotActiveErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeNotActive, "game not active: "+msg, args...)
}

// IsNotActiveError reports whether err carries the not active code.
func IsNotActiveError(err error) bool {
	return HasErrorCode(err, ErrCodeNotActive)
}

// NewInvalidTransitionErrorf indicates a status change the lifecycle does not allow.
func NewInvalidTransitionErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeInvalidTransition, "invalid transition: "+msg, args...)
}

// IsInvalidTransitionError reports whether err carries the invalid transition code.
func IsInvalidTransitionError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidTransition)
}

// NewGameNotFoundError indicates no game exists under gameID.
func NewGameNotFoundError(gameID uint64) CodedError {
	return NewCodedError(ErrCodeGameNotFound, "game %d not found", gameID)
}

// IsGameNotFoundError reports whether err carries the game not found code.
func IsGameNotFoundError(err error) bool {
	return HasErrorCode(err, ErrCodeGameNotFound)
}

// NewInvalidMoveErrorf indicates a move that is off the board or does not fit the owner's board.
func NewInvalidMoveErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeInvalidMove, "invalid move: "+msg, args...)
}

// IsInvalidMoveError reports whether err carries the invalid move code.
func IsInvalidMoveError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidMove)
}

// NewInvalidEventErrorf indicates a MoveEvent that is malformed or does not follow the game.
func NewInvalidEventErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeInvalidEvent, "invalid move event: "+msg, args...)
}

// IsInvalidEventError reports whether err carries the invalid event code.
func IsInvalidEventError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidEvent)
}

// NewInvalidTraceErrorf indicates a trace could not be opened, which is
// what happens when the wrong mask secret is used.
func NewInvalidTraceErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeInvalidTrace, "invalid trace: "+msg, args...)
}

// IsInvalidTraceError reports whether err carries the invalid trace code.
func IsInvalidTraceError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidTrace)
}

// NewStaleStateErrorf indicates a supplied GameState or UserState is not at
// the version the ledger holds.
func NewStaleStateErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeStaleState, "stale state: "+msg, args...)
}

// IsStaleStateError reports whether err carries the stale state code.
func IsStaleStateError(err error) bool {
	return HasErrorCode(err, ErrCodeStaleState)
}

// NewTimeoutNotReachedErrorf indicates a timeout claim made before the move timeout elapsed.
func NewTimeoutNotReachedErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeTimeoutNotReached, "timeout not reached: "+msg, args...)
}

// IsTimeoutNotReachedError reports whether err carries the timeout not reached code.
func IsTimeoutNotReachedError(err error) bool {
	return HasErrorCode(err, ErrCodeTimeoutNotReached)
}

// NewInvalidArgumentErrorf indicates malformed input or stored data that cannot be decoded.
func NewInvalidArgumentErrorf(msg string, args ...interface{}) CodedError {
	return NewCodedError(ErrCodeInvalidArgument, "invalid argument: "+msg, args...)
}

// IsInvalidArgumentError reports whether err carries the invalid argument code.
func IsInvalidArgumentError(err error) bool {
	return HasErrorCode(err, ErrCodeInvalidArgument)
}
