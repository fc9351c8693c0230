// Package checkpoint implements the per-checkpoint delta computation and
// ordered publishing core of the indexer: balance-change and object-change
// extraction from transaction effects, cross-referenced against prior
// object versions, plus a strictly-ordered fan-out to the downstream bus.
package checkpoint

import (
	"encoding/hex"
	"fmt"
)

// ObjectID is an opaque 32-byte identity.
type ObjectID [32]byte

// String renders the canonical form: 0x followed by 64 lowercase hex digits.
func (id ObjectID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// ObjectIDFromHex parses a canonical (with or without 0x prefix) hex string.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("checkpoint: bad object id hex %q: %w", s, err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("checkpoint: object id must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// SequenceNumber is a monotonic per-object version counter.
type SequenceNumber uint64

// ObjectDigest is a content hash used for integrity checks.
type ObjectDigest [32]byte

func (d ObjectDigest) String() string { return hex.EncodeToString(d[:]) }

// OwnerKind discriminates the variants of Owner.
type OwnerKind uint8

const (
	OwnerAddress OwnerKind = iota
	OwnerObject
	OwnerShared
	OwnerImmutable
)

// Address is a 32-byte account identity, the only Owner kind that can
// participate in balance accounting.
type Address [32]byte

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// Owner is a tagged union: address-owner, object-owner (parent object id),
// shared (with an initial shared version) or immutable.
type Owner struct {
	Kind                 OwnerKind
	Address              Address        // valid when Kind == OwnerAddress
	Parent               ObjectID       // valid when Kind == OwnerObject
	InitialSharedVersion SequenceNumber // valid when Kind == OwnerShared
}

// AddressOwner constructs an address-owner.
func AddressOwner(a Address) Owner { return Owner{Kind: OwnerAddress, Address: a} }

// ObjectOwner constructs a parent-object owner.
func ObjectOwner(parent ObjectID) Owner { return Owner{Kind: OwnerObject, Parent: parent} }

// SharedOwner constructs a shared owner.
func SharedOwner(initial SequenceNumber) Owner {
	return Owner{Kind: OwnerShared, InitialSharedVersion: initial}
}

// ImmutableOwner constructs an immutable owner.
func ImmutableOwner() Owner { return Owner{Kind: OwnerImmutable} }

// GetAddress returns the address owner and true, or zero-value and false if
// this owner is not address-owned.
func (o Owner) GetAddress() (Address, bool) {
	if o.Kind == OwnerAddress {
		return o.Address, true
	}
	return Address{}, false
}

func (o Owner) String() string {
	switch o.Kind {
	case OwnerAddress:
		return o.Address.String()
	case OwnerObject:
		return "object:" + o.Parent.String()
	case OwnerShared:
		return fmt.Sprintf("shared(initial=%d)", o.InitialSharedVersion)
	default:
		return "immutable"
	}
}

// Equal compares two owners for semantic equality.
func (o Owner) Equal(other Owner) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case OwnerAddress:
		return o.Address == other.Address
	case OwnerObject:
		return o.Parent == other.Parent
	case OwnerShared:
		return o.InitialSharedVersion == other.InitialSharedVersion
	default:
		return true
	}
}

// TypeTag is the Move-canonical rendering of a type, e.g.
// "0x2::coin::Coin<0x2::sui::SUI>".
type TypeTag string

// String implements fmt.Stringer.
func (t TypeTag) String() string { return string(t) }

// GasCoinType is the type tag of the chain's native gas coin.
const GasCoinType TypeTag = "0x2::sui::SUI"

// Object is the tuple of identity, version, digest, owner, type and payload
// that the provider resolves prior versions into.
type Object struct {
	ID      ObjectID
	Version SequenceNumber
	Digest  ObjectDigest
	Owner   Owner
	Type    TypeTag // empty for packages
	Payload []byte  // serialized Move value; nil for packages

	// Package-only fields, populated when Type == "".
	IsPackage   bool
	ModuleNames []string
}

// WriteKind classifies how a changed object came to be in its new state.
type WriteKind uint8

const (
	WriteCreate WriteKind = iota
	WriteMutate
	WriteUnwrap
)

// RemoveKind classifies how a removed object left the active set.
type RemoveKind uint8

const (
	RemoveDelete RemoveKind = iota
	RemoveWrap
)

// ExecutionStatus is the transaction's outcome.
type ExecutionStatus uint8

const (
	StatusSuccess ExecutionStatus = iota
	StatusFailure
)

// ModifiedAtVersion is an (id, prior version) pair.
type ModifiedAtVersion struct {
	ID      ObjectID
	Version SequenceNumber
}

// ChangedObject is an (id, new version, new digest, new owner, write-kind)
// record, one of TransactionEffects.AllChangedObjects.
type ChangedObject struct {
	ID      ObjectID
	Version SequenceNumber
	Digest  ObjectDigest
	Owner   Owner
	Kind    WriteKind
}

// RemovedObject is an (id, version, remove-kind) record, one of
// TransactionEffects.AllRemovedObjects.
type RemovedObject struct {
	ID      ObjectID
	Version SequenceNumber
	Kind    RemoveKind
}

// GasCostSummary carries signed net gas usage for a transaction.
type GasCostSummary struct {
	NetGasUsage int64
}

// TransactionEffects is the per-transaction ledger of everything the change
// engines need: gas accounting, the modified/changed/removed object sets.
type TransactionEffects struct {
	GasObjectID ObjectID
	GasOwner    Owner
	Status      ExecutionStatus
	GasCost     GasCostSummary

	ModifiedAtVersions   []ModifiedAtVersion
	AllChangedObjects    []ChangedObject
	AllRemovedObjects    []RemovedObject
	UnwrappedThenDeleted []ObjectID
}

// InputObjectKind mirrors the three ways an object can be named as a
// transaction input.
type InputObjectKind struct {
	Kind InputKind

	// Valid when Kind == InputImmOrOwnedMoveObject.
	ID      ObjectID
	Version SequenceNumber
	Digest  ObjectDigest

	// Valid when Kind == InputMovePackage.
	PackageID ObjectID

	// Valid when Kind == InputSharedMoveObject.
	SharedID                   ObjectID
	SharedInitialSharedVersion SequenceNumber
}

// InputKind discriminates InputObjectKind's variants.
type InputKind uint8

const (
	InputImmOrOwnedMoveObject InputKind = iota
	InputMovePackage
	InputSharedMoveObject
)
