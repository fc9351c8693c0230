package checkpoint

import "errors"

// ErrNotFound is returned by an ObjectProvider.Get call for an (id, version)
// pair the provider has never seen.
var ErrNotFound = errors.New("checkpoint: object not found")

// ErrDigestMismatch signals provider corruption: the caller supplied a
// digest that disagrees with the object the provider returned. Fatal per
// spec.md §7 — callers should abort processing of the current transaction.
var ErrDigestMismatch = errors.New("checkpoint: digest mismatch")

// ErrMissingStatus is a programmer error surfaced by the extended balance
// engine when an accumulated record's object id has no entry in the
// caller-supplied status map and its owner did not change across the
// transaction boundary (spec.md §4.5).
var ErrMissingStatus = errors.New("checkpoint: missing object status")

// ErrMissingInputOwner is logged at warn level (never returned) by the
// extended object-change engine when an object it expected to find in the
// input-owners map is absent (spec.md §7).
var ErrMissingInputOwner = errors.New("checkpoint: object absent from input-owners map")

// ErrNotACoin is returned by the coin extractor for objects whose type tag
// does not match 0x2::coin::Coin<T>.
var ErrNotACoin = errors.New("checkpoint: not a coin")

// ErrMalformedCoin is fatal: a type tag declared a coin but the payload
// could not be decoded as one (spec.md §4.3).
var ErrMalformedCoin = errors.New("checkpoint: malformed coin payload")
