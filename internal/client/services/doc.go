// Package services holds the two hyperblog flows and their collaborators.
//
// ListingService loads entries (default listing, search, per-author or
// starred), resolves author nicknames and appends rendered fragments to a
// container in source order.
//
// RegistrationFlow is the two-control registration state machine: request a
// verification code, then run the registration call sequence through a
// Registrar and branch on the returned statuses. All user feedback goes
// through a Presenter.
//
// Everything is constructed with explicit dependencies; there is no package
// state.
package services
