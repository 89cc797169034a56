// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"errors"
	"fmt"
)

// ErrKind classifies a failure for the final report and for metrics labels.
//
// Adapter failures never abort a run: they are absorbed at the synthesis
// barrier and surface as degraded coverage in the report. Evaluator and
// insight failures are absorbed by deterministic fallbacks. Only
// configuration errors reject a run before the graph starts.
type ErrKind string

const (
	ErrKindAdapterTimeout       ErrKind = "ADAPTER_TIMEOUT"
	ErrKindAdapterFailure       ErrKind = "ADAPTER_FAILURE"
	ErrKindDataUnavailable      ErrKind = "ADAPTER_DATA_UNAVAILABLE"
	ErrKindEvaluatorUnavailable ErrKind = "EVALUATOR_UNAVAILABLE"
	ErrKindInsightUnavailable   ErrKind = "INSIGHT_UNAVAILABLE"
	ErrKindConfiguration        ErrKind = "CONFIGURATION_ERROR"
)

// AdapterError carries a failure classification across the adapter
// boundary so the harness can record the right kind without string
// matching provider messages.
type AdapterError struct {
	Kind ErrKind
	Err  error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError wraps err with an explicit kind.
func NewAdapterError(kind ErrKind, err error) *AdapterError {
	return &AdapterError{Kind: kind, Err: err}
}

// DataUnavailable marks a provider response that had no usable data for
// the symbol (unknown ticker, empty history).
func DataUnavailable(format string, args ...any) *AdapterError {
	return &AdapterError{Kind: ErrKindDataUnavailable, Err: fmt.Errorf(format, args...)}
}

// ClassifyAdapterError extracts the kind from err, defaulting to a plain
// adapter failure for untyped errors.
func ClassifyAdapterError(err error) ErrKind {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ErrKindAdapterFailure
}

// ConfigurationError is the only error that rejects an analysis run before
// the graph executes. It is surfaced to the caller with no partial state.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrKindConfiguration, e.Reason)
}

// NewConfigurationError builds a pre-flight rejection.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is a pre-flight rejection.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
