// Package jwt provides unverified JWT claim inspection for client-side
// session liveness checks: expiry validation and near-expiry detection used
// to decide when a stored token should be refreshed or discarded.
//
// Nothing in this package verifies signatures. The decoded claims are a
// convenience hint, not a security boundary.
package jwt
