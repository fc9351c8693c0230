package checkpoint

import (
	"context"
	"testing"
)

func sui(id ObjectID, version SequenceNumber, digest ObjectDigest, owner Owner, balance uint64) Object {
	return Object{
		ID: id, Version: version, Digest: digest, Owner: owner,
		Type:    GasCoinType,
		Payload: EncodeCoinPayload(id, balance),
	}
}

func TestComputeBalanceChangesSimpleTransfer(t *testing.T) {
	p := newMockProvider()
	var coinID ObjectID
	coinID[0] = 1
	var sender, receiver Address
	sender[0], receiver[0] = 1, 2

	preDigest := ObjectDigest{1}
	postDigest := ObjectDigest{2}
	p.put(sui(coinID, 1, preDigest, AddressOwner(sender), 100))
	p.put(sui(coinID, 2, postDigest, AddressOwner(receiver), 100))

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		Status:  StatusSuccess,
		GasCost: GasCostSummary{NetGasUsage: 5},
	}

	changes, err := ComputeBalanceChanges(context.Background(), cache, effects,
		[]VersionedRef{{ID: coinID, Version: 1}},
		[]VersionedRef{{ID: coinID, Version: 2}},
	)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 balance changes (sender -100, receiver +100), got %d: %+v", len(changes), changes)
	}
	byOwner := map[string]int64{}
	for _, c := range changes {
		byOwner[c.Owner.String()] = c.Amount
	}
	if byOwner[sender.String()] != -100 {
		t.Fatalf("expected sender -100, got %d", byOwner[sender.String()])
	}
	if byOwner[receiver.String()] != 100 {
		t.Fatalf("expected receiver +100, got %d", byOwner[receiver.String()])
	}
}

func TestComputeBalanceChangesZeroNetOmitted(t *testing.T) {
	p := newMockProvider()
	var coinID ObjectID
	coinID[0] = 3
	var owner Address
	owner[0] = 9

	p.put(sui(coinID, 1, ObjectDigest{1}, AddressOwner(owner), 50))
	p.put(sui(coinID, 2, ObjectDigest{2}, AddressOwner(owner), 50))

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{Status: StatusSuccess}

	changes, err := ComputeBalanceChanges(context.Background(), cache, effects,
		[]VersionedRef{{ID: coinID, Version: 1}},
		[]VersionedRef{{ID: coinID, Version: 2}},
	)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no balance changes for a net-zero move, got %+v", changes)
	}
}

func TestComputeBalanceChangesFailedTransactionGasOnly(t *testing.T) {
	var gasOwner Address
	gasOwner[0] = 4
	effects := TransactionEffects{
		Status:      StatusFailure,
		GasOwner:    AddressOwner(gasOwner),
		GasObjectID: ObjectID{5},
		GasCost:     GasCostSummary{NetGasUsage: 30},
	}

	cache := NewVersionedObjectCache(newMockProvider())
	changes, err := ComputeBalanceChanges(context.Background(), cache, effects, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(changes) != 1 || changes[0].Amount != -30 || changes[0].CoinType != GasCoinType {
		t.Fatalf("expected single negative gas-only change, got %+v", changes)
	}
}

func TestComputeBalanceChangesNonCoinObjectsSkipped(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 6
	p.put(Object{ID: id, Version: 1, Type: "0x2::not_a_coin::Widget"})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{Status: StatusSuccess}
	changes, err := ComputeBalanceChanges(context.Background(), cache, effects,
		[]VersionedRef{{ID: id, Version: 1}}, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no balance changes for non-coin objects, got %+v", changes)
	}
}

func TestBalanceChangesFromEffectsAppliesMockedCoinFilter(t *testing.T) {
	p := newMockProvider()
	var mockedCoin, realCoin ObjectID
	mockedCoin[0], realCoin[0] = 7, 8
	var owner Address
	owner[0] = 1

	p.put(sui(mockedCoin, 1, ObjectDigest{1}, AddressOwner(owner), 999))
	p.put(sui(mockedCoin, 2, ObjectDigest{2}, AddressOwner(owner), 999))
	p.put(sui(realCoin, 1, ObjectDigest{3}, AddressOwner(owner), 10))
	p.put(sui(realCoin, 2, ObjectDigest{4}, AddressOwner(owner), 15))

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		Status: StatusSuccess,
		ModifiedAtVersions: []ModifiedAtVersion{
			{ID: mockedCoin, Version: 1}, {ID: realCoin, Version: 1},
		},
		AllChangedObjects: []ChangedObject{
			{ID: mockedCoin, Version: 2, Digest: ObjectDigest{2}},
			{ID: realCoin, Version: 2, Digest: ObjectDigest{4}},
		},
	}

	changes, err := BalanceChangesFromEffects(context.Background(), cache, effects, nil, &mockedCoin)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(changes) != 1 || changes[0].Amount != 5 {
		t.Fatalf("expected only the real coin's +5 net change, got %+v", changes)
	}
}

func TestBalanceChangesFromEffectsSkipsUnwrappedThenDeletedOnInputSide(t *testing.T) {
	p := newMockProvider()
	var coinID ObjectID
	coinID[0] = 9
	var owner Address
	owner[0] = 2
	p.put(sui(coinID, 5, ObjectDigest{1}, AddressOwner(owner), 20))

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		Status: StatusSuccess,
		ModifiedAtVersions: []ModifiedAtVersion{
			{ID: coinID, Version: 5},
		},
		UnwrappedThenDeleted: []ObjectID{coinID},
	}

	changes, err := BalanceChangesFromEffects(context.Background(), cache, effects, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no changes: unwrapped-then-deleted input refs cannot be resolved, got %+v", changes)
	}
}
