// SPDX-License-Identifier: EPL-2.0

// Package errs holds the structured error type shared by the binding
// packages.
//
// Errors are built with a Phase (where it happened) and a Kind (what went
// wrong) and compare with errors.Is on those two fields:
//
//	err := errs.New(errs.PhaseSession, errs.KindBusy).Op("lame.encode").Build()
//	errors.Is(err, errs.Busy) // true
//
// Status codes returned by the codec backends are not errors. They are
// passed through as plain integers and only the stream package turns a
// negative code into an error value.
package errs
