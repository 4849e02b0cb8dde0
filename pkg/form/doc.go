// Package form implements the per-visit form controller: it binds submitted
// values to a FormModel, keeps per-field errors, and drives the
// Editing -> Submitting -> Editing lifecycle around a single delivery attempt.
//
// A Controller is owned by one page visit (in the HTTP server, one request).
// Submit is mutually exclusive per instance and always leaves the Submitting
// phase, even when the sender panics.
package form
