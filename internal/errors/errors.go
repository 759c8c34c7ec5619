// Package errors is the only error package the storefront imports.
// Matching comes from the standard library; annotation adds a stack trace
// through pkg/errors so the error middleware can log where a failure started.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

// Matching.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

// New builds a sentinel without a stack; wrap it at the return site.
func New(text string) error {
	return stderrors.New(text)
}

// Annotation.
var (
	Wrap        = pkgerrors.Wrap
	Wrapf       = pkgerrors.Wrapf
	WithStack   = pkgerrors.WithStack
	WithMessage = pkgerrors.WithMessage
	Errorf      = pkgerrors.Errorf
	Cause       = pkgerrors.Cause
)
