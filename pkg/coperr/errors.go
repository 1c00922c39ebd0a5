// Copyright 2017 The Cockroach Authors.
// Copyright (c) 2022-present, Shanghai Yunxi Technology Co, Ltd. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package coperr implements the pipeline's error taxonomy (Storage, Codec,
// Schema, MissingColumn, Eval, Cancelled). It is kept below both
// pkg/sqlbase and pkg/rowexec in the import graph since row
// encoding (sqlbase) and the executor pipeline (rowexec) both need to
// raise and classify these kinds, and sqlbase cannot depend on rowexec.
//
// Errors are built on github.com/cockroachdb/errors rather than stdlib
// errors, so callers keep errors.Is/As/Wrap compatibility with the rest
// of the stack.
package coperr

import (
	"github.com/cockroachdb/errors"
)

// Kind classifies a pipeline error.
type Kind int

// The error kinds this package distinguishes.
const (
	KindStorage Kind = iota
	KindCodec
	KindSchema
	KindMissingColumn
	KindEval
	KindCancelled
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindCodec:
		return "codec"
	case KindSchema:
		return "schema"
	case KindMissingColumn:
		return "missing_column"
	case KindEval:
		return "eval"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type copError struct {
	kind Kind
	err  error
}

func (e *copError) Error() string { return e.err.Error() }
func (e *copError) Cause() error  { return e.err }
func (e *copError) Unwrap() error { return e.err }

// KindOf extracts the Kind tag of an error built by this package, or false
// if err was not built here.
func KindOf(err error) (Kind, bool) {
	var ce *copError
	if errors.As(err, &ce) {
		return ce.kind, true
	}
	return 0, false
}

// NewStorage wraps a storage-layer failure; fatal.
func NewStorage(cause error) error {
	return &copError{kind: KindStorage, err: errors.Wrap(cause, "storage")}
}

// NewCodec wraps a malformed key or value bytes failure; fatal.
func NewCodec(cause error) error {
	return &copError{kind: KindCodec, err: errors.Wrap(cause, "codec")}
}

// NewSchema reports a column offset referenced by an expression falling
// outside the declared schema; fatal, raised at construction time by the
// column-ref visitor.
func NewSchema(offset, schemaLen int) error {
	return &copError{
		kind: KindSchema,
		err: errors.Newf(
			"column offset %d out of range for schema of length %d",
			errors.Safe(offset), errors.Safe(schemaLen)),
	}
}

// NewMissingColumn reports a NOT_NULL column with no stored value and no
// default; fatal.
func NewMissingColumn(columnID int64, handle int64) error {
	return &copError{
		kind: KindMissingColumn,
		err: errors.Newf(
			"missing column %d for row with handle %d",
			errors.Safe(columnID), errors.Safe(handle)),
	}
}

// NewEval wraps an expression-evaluator failure. Whether this is fatal or
// demoted to a warning is the caller's decision, driven by the
// EvalContext's SQL-mode bit.
func NewEval(cause error) error {
	return &copError{kind: KindEval, err: errors.Wrap(cause, "eval")}
}

// ErrCancelled is returned along the Next path when the caller asked for
// shutdown; the scan executor still reports its consumed KeyRange via
// StopScan in this case.
var ErrCancelled = &copError{kind: KindCancelled, err: errors.New("cancelled")}

// IsFatal reports whether err should short-circuit the Next path: every
// kind constructed by this package is fatal, short-circuiting on the
// first one seen. Eval warnings that should NOT abort the row are never
// wrapped as a coperr in the first place — they are pushed to
// EvalWarnings instead.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	_, ok := KindOf(err)
	return ok
}
