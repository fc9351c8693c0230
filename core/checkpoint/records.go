package checkpoint

// BalanceChange is a signed per-(owner, coin-type) delta.
type BalanceChange struct {
	Owner    Owner   `json:"owner"`
	CoinType TypeTag `json:"coin_type"`
	Amount   int64   `json:"amount"`
}

// ObjectStatus classifies an ExtendedBalanceChange's lifecycle stage.
type ObjectStatus string

const (
	StatusCreated ObjectStatus = "Created"
	StatusMutated ObjectStatus = "Mutated"
	StatusDeleted ObjectStatus = "Deleted"
)

// ExtendedBalanceChange is a BalanceChange keyed additionally by object id,
// carrying the object's lifecycle status for this transaction. GasChange
// marks the synthetic gas record appended by the extended balance engine;
// downstream consumers use it instead of matching against a sentinel type
// tag (spec.md §9 Design Notes REDESIGN FLAG).
type ExtendedBalanceChange struct {
	Owner     Owner   `json:"owner"`
	CoinType  TypeTag `json:"coin_type"`
	Amount    int64   `json:"amount"`
	ObjectID  string  `json:"object_id"`
	Status    ObjectStatus `json:"status"`
	GasChange bool    `json:"gas_change"`
}

// ObjectChangeKind discriminates ObjectChange's variants.
type ObjectChangeKind string

const (
	ChangeCreated   ObjectChangeKind = "Created"
	ChangeMutated   ObjectChangeKind = "Mutated"
	ChangeDeleted   ObjectChangeKind = "Deleted"
	ChangeWrapped   ObjectChangeKind = "Wrapped"
	ChangePublished ObjectChangeKind = "Published"
)

// ObjectChange is the canonical, tagged-union object-change record. Only the
// fields relevant to Kind are populated; the rest are zero values.
type ObjectChange struct {
	Kind ObjectChangeKind `json:"kind"`

	// Mutated / Created / Deleted / Wrapped
	Sender          Address        `json:"sender,omitempty"`
	Owner           Owner          `json:"owner,omitempty"`
	Type            TypeTag        `json:"object_type,omitempty"`
	ObjectID        ObjectID       `json:"object_id,omitempty"`
	Version         SequenceNumber `json:"version,omitempty"`
	PreviousVersion SequenceNumber `json:"previous_version,omitempty"`
	Digest          ObjectDigest   `json:"digest,omitempty"`

	// Published
	PackageID   ObjectID `json:"package_id,omitempty"`
	ModuleNames []string `json:"module_names,omitempty"`
}

// ObjectUpdateStatusKind discriminates the extended bus-facing status.
type ObjectUpdateStatusKind string

const (
	UpdateCreated  ObjectUpdateStatusKind = "Created"
	UpdateMutated  ObjectUpdateStatusKind = "Mutated"
	UpdateDeleted  ObjectUpdateStatusKind = "Deleted"
	UpdateReceived ObjectUpdateStatusKind = "Received"
	UpdateSent     ObjectUpdateStatusKind = "Sent"
)

// ObjectUpdateStatus is the tagged status carried on an ObjectChangeUpdate.
type ObjectUpdateStatus struct {
	Kind     ObjectUpdateStatusKind `json:"kind"`
	Sender   Address                `json:"sender,omitempty"`   // Received / Sent
	Receiver Address                `json:"receiver,omitempty"` // Received / Sent
}

// ObjectChangeUpdate is the denormalized bus message shape described in
// spec.md §3/§6.
type ObjectChangeUpdate struct {
	ObjectID      string             `json:"object_id"`
	ObjectType    *string            `json:"object_type_tag,omitempty"`
	ObjectVersion *uint64            `json:"object_version,omitempty"`
	ObjectBCS     []byte             `json:"object_bcs,omitempty"`
	ObjectMeta    map[string]string  `json:"object_metadata,omitempty"`
	Status        ObjectUpdateStatus `json:"status"`
}

// RoutedObjectChangeUpdate pairs an ObjectChangeUpdate with the optional
// routing address the classifier chose for it.
type RoutedObjectChangeUpdate struct {
	RouteAddress *Address
	Update       ObjectChangeUpdate
}
