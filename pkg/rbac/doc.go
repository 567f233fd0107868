// Package rbac implements role-based access control and subscription-derived
// feature flags for the EcoOverlay backend.
//
// Roles form a fixed total order (user < premium < moderator < admin) and
// each role's permission set is a strict superset of every role below it.
// The table is declarative: it is composed once at package initialization
// from per-role additions and treated as read-only for the process lifetime.
//
// Feature flags are never stored. FlagsFor derives them purely from the
// (role, subscription tier) pair, so a payment-processor webhook that
// changes either value is reflected by the very next evaluation.
//
// The Authorizer wraps a RoleStore (the persistence collaborator, consulted
// only to fetch a role by user id) with a bounded TTL cache. Authorization
// failures are explicit errors; a store outage fails closed, never toward
// an implicit allow.
package rbac
