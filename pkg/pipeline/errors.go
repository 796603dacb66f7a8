package pipeline

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// Stage identifies a step of a write operation.
type Stage int

const (
	StageUpload Stage = iota + 1
	StageAuthorization
	StageFeeResolution
	StageSubmission
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageAuthorization:
		return "authorization"
	case StageFeeResolution:
		return "fee resolution"
	case StageSubmission:
		return "submission"
	default:
		return "Stage(" + strconv.Itoa(int(s)) + ")"
	}
}

// Sentinels matched by errors.Is against a *StageError of the same stage.
var (
	ErrUploadFailed        = errors.New("upload failed")
	ErrAuthorizationFailed = errors.New("authorization failed")
	ErrFeeResolutionFailed = errors.New("fee resolution failed")
	ErrSubmissionFailed    = errors.New("submission failed")
)

func (s Stage) sentinel() error {
	switch s {
	case StageUpload:
		return ErrUploadFailed
	case StageAuthorization:
		return ErrAuthorizationFailed
	case StageFeeResolution:
		return ErrFeeResolutionFailed
	case StageSubmission:
		return ErrSubmissionFailed
	}
	return nil
}

// StageError reports the stage a write stopped at together with every
// artifact obtained before it. Later artifacts are zero.
type StageError struct {
	Stage     Stage
	CID       string
	Signature string
	Fee       *big.Int
	Err       error
}

func (e *StageError) Error() string {
	msg := e.Stage.String() + " failed"
	if e.CID != "" {
		msg += fmt.Sprintf(" (cid %s)", e.CID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StageError) Unwrap() error { return e.Err }

// Is matches the sentinel of the failed stage.
func (e *StageError) Is(target error) bool {
	s := e.Stage.sentinel()
	return s != nil && target == s
}

// Artifacts returns what the write produced before failing.
func (e *StageError) Artifacts() Artifacts {
	return Artifacts{CID: e.CID, Signature: e.Signature, Fee: e.Fee}
}
