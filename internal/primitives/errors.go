// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package primitives holds the byte-oriented combinators, string
// extraction, timestamp conversion, and GUID formatting shared by every
// artifact parser, plus the error taxonomy every parser reports through.
package primitives

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InputNotPresent: the requested file, hive, or glob matched nothing.
// Callers log at warn and emit an empty artifact; the run continues.
type InputNotPresent struct {
	Artifact string
	Path     string
}

func (e *InputNotPresent) Error() string {
	return fmt.Sprintf("%s: input not present: %s", e.Artifact, e.Path)
}

// FormatViolation: a signature mismatch, fixup mismatch, unknown cell
// type, or decompression failure at a known offset. Callers log at
// error and skip the offending record, continuing the parser.
type FormatViolation struct {
	Artifact string
	Offset   int64
	Kind     string
}

func (e *FormatViolation) Error() string {
	return fmt.Sprintf("%s: format violation at offset %d: %s", e.Artifact, e.Offset, e.Kind)
}

// Truncation: a slice was shorter than the decoder needed. Like
// FormatViolation but also terminates the enclosing record.
type Truncation struct {
	Artifact string
	Offset   int64
	Wanted   int
	Got      int
}

func (e *Truncation) Error() string {
	return fmt.Sprintf("%s: truncated at offset %d: wanted %d bytes, got %d", e.Artifact, e.Offset, e.Wanted, e.Got)
}

// ResourceNotAcquired: a volume or file handle could not be opened.
// Aborts the one artifact; the run continues with the next.
type ResourceNotAcquired struct {
	Artifact string
	Resource string
	Cause    error
}

func (e *ResourceNotAcquired) Error() string {
	return fmt.Sprintf("%s: could not acquire %s: %v", e.Artifact, e.Resource, e.Cause)
}

func (e *ResourceNotAcquired) Unwrap() error { return e.Cause }

// Configuration: bad TOML, bad format string, or an unknown sink.
// Aborts the whole run with a non-zero exit.
type Configuration struct {
	Detail string
	Cause  error
}

func (e *Configuration) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Detail, e.Cause)
	}
	return "configuration: " + e.Detail
}

func (e *Configuration) Unwrap() error { return e.Cause }

// OutputError: the sink refused the bytes. Bubbles up and aborts the
// run, since later artifacts cannot be persisted either.
type OutputError struct {
	Sink  string
	Cause error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output sink %s refused bytes: %v", e.Sink, e.Cause)
}

func (e *OutputError) Unwrap() error { return e.Cause }

// Wrap attaches a stack trace the way cockroachdb/errors does for the
// rest of the core, so a top-level handler can print `%+v` and see
// where a format violation actually originated.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
