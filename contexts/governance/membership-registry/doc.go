// Package membershipregistry implements the membership credential registry
// inside the governance context.
//
// The module owns the one-token-per-account invariant: it mints, queries, and
// revokes non-transferable membership tokens, allocates the monotonic issuance
// sequence, tracks minting rounds and per-cohort uniqueness, and produces
// token lifecycle events through the transactional outbox. Business rules stay
// in application/domain layers; infrastructure sits behind ports and adapters.
package membershipregistry
