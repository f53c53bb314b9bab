package base

import (
	"fmt"

	"github.com/pkg/errors"
)

// Options is the fixed configuration of a client. It is set once at construction.
type Options struct {
	Model             string
	SystemInstruction string
	MaxOutputTokens   int
	// Empty means the provider's public endpoint.
	BaseURL string
}

var ErrEmptyResponse = errors.New("empty response from model")

// RemoteFailure is the only error kind a client returns: network, auth and
// malformed responses all end up here.
type RemoteFailure struct {
	Provider string
	Op       string
	Err      error
}

func Failure(provider, op string, err error) error {
	return &RemoteFailure{Provider: provider, Op: op, Err: errors.WithStack(err)}
}

func (failure *RemoteFailure) Error() string {
	return fmt.Sprintf("%s: %s: %v", failure.Provider, failure.Op, failure.Err)
}

func (failure *RemoteFailure) Unwrap() error {
	return failure.Err
}

func IsRemoteFailure(err error) bool {
	var failure *RemoteFailure
	return errors.As(err, &failure)
}
