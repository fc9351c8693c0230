package checkpoint

import (
	"context"
	"errors"
	"testing"
)

func TestComputeExtendedBalanceChangesFailedTransaction(t *testing.T) {
	var gasOwner Address
	gasOwner[0] = 1
	effects := TransactionEffects{
		Status:      StatusFailure,
		GasOwner:    AddressOwner(gasOwner),
		GasObjectID: ObjectID{9},
		GasCost:     GasCostSummary{NetGasUsage: 12},
	}
	cache := NewVersionedObjectCache(newMockProvider())

	out, err := ComputeExtendedBalanceChanges(context.Background(), cache, effects, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 || out[0].Amount != -12 || !out[0].GasChange {
		t.Fatalf("expected single negative gas record, got %+v", out)
	}
}

func TestComputeExtendedBalanceChangesAppendsPositiveGasRecord(t *testing.T) {
	p := newMockProvider()
	var coinID ObjectID
	coinID[0] = 2
	var owner Address
	owner[0] = 3
	p.put(sui(coinID, 1, ObjectDigest{1}, AddressOwner(owner), 10))
	p.put(sui(coinID, 2, ObjectDigest{2}, AddressOwner(owner), 10))

	cache := NewVersionedObjectCache(p)
	idStr := coinID.String()
	effects := TransactionEffects{Status: StatusSuccess, GasCost: GasCostSummary{NetGasUsage: 7}}

	out, err := ComputeExtendedBalanceChanges(context.Background(), cache, effects,
		[]VersionedRef{{ID: coinID, Version: 1}},
		[]VersionedRef{{ID: coinID, Version: 2}},
		map[string]ObjectStatus{idStr: StatusMutated},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	var sawGas bool
	for _, c := range out {
		if c.GasChange {
			sawGas = true
			if c.Amount != 7 {
				t.Fatalf("expected positive gas amount 7, got %d", c.Amount)
			}
		}
	}
	if !sawGas {
		t.Fatal("expected a synthetic gas record to be appended")
	}
}

func TestComputeExtendedBalanceChangesClassifiesByOwnerMaps(t *testing.T) {
	p := newMockProvider()
	var coinID ObjectID
	coinID[0] = 4
	var current, priorOwner Address
	current[0], priorOwner[0] = 5, 6
	p.put(sui(coinID, 1, ObjectDigest{1}, AddressOwner(current), 20))

	cache := NewVersionedObjectCache(p)
	idStr := coinID.String()

	effects := TransactionEffects{Status: StatusSuccess}

	out, err := ComputeExtendedBalanceChanges(context.Background(), cache, effects,
		nil,
		[]VersionedRef{{ID: coinID, Version: 1}},
		map[string]ObjectStatus{},
		map[string]Owner{idStr: AddressOwner(priorOwner)},
		nil,
	)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	var found bool
	for _, c := range out {
		if c.ObjectID == idStr {
			found = true
			if c.Status != StatusCreated {
				t.Fatalf("expected StatusCreated when input-owner differs, got %v", c.Status)
			}
		}
	}
	if !found {
		t.Fatal("expected a record for the coin object")
	}
}

func TestComputeExtendedBalanceChangesMissingStatusErrors(t *testing.T) {
	p := newMockProvider()
	var coinID ObjectID
	coinID[0] = 8
	var owner Address
	owner[0] = 1
	p.put(sui(coinID, 1, ObjectDigest{1}, AddressOwner(owner), 5))

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{Status: StatusSuccess}

	_, err := ComputeExtendedBalanceChanges(context.Background(), cache, effects,
		nil,
		[]VersionedRef{{ID: coinID, Version: 1}},
		map[string]ObjectStatus{},
		nil, nil,
	)
	if !errors.Is(err, ErrMissingStatus) {
		t.Fatalf("expected ErrMissingStatus, got %v", err)
	}
}
