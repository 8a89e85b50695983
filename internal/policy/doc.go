// Package policy answers "may principal P perform action A on entity E".
//
// All predicates are pure functions over already-loaded entities; they hold no
// state and perform no I/O. The booking coordinator evaluates the relevant
// predicate before every mutation and translates a false answer into
// ErrForbidden.
package policy
