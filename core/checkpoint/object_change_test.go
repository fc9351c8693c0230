package checkpoint

import (
	"context"
	"testing"
)

func TestComputeObjectChangesCreatedAndMutated(t *testing.T) {
	p := newMockProvider()
	var createdID, mutatedID ObjectID
	createdID[0], mutatedID[0] = 1, 2
	var owner Address
	owner[0] = 9

	p.put(Object{ID: createdID, Version: 1, Type: "0x2::foo::Bar"})
	p.put(Object{ID: mutatedID, Version: 2, Type: "0x2::foo::Bar"})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		ModifiedAtVersions: []ModifiedAtVersion{{ID: mutatedID, Version: 1}},
		AllChangedObjects: []ChangedObject{
			{ID: createdID, Version: 1, Owner: AddressOwner(owner), Kind: WriteCreate},
			{ID: mutatedID, Version: 2, Owner: AddressOwner(owner), Kind: WriteMutate},
		},
	}

	out, err := ComputeObjectChanges(context.Background(), cache, owner, effects)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(out), out)
	}
	var sawCreated, sawMutated bool
	for _, c := range out {
		switch c.Kind {
		case ChangeCreated:
			sawCreated = true
		case ChangeMutated:
			sawMutated = true
			if c.PreviousVersion != 1 {
				t.Fatalf("expected previous version 1, got %d", c.PreviousVersion)
			}
		}
	}
	if !sawCreated || !sawMutated {
		t.Fatalf("expected both a created and a mutated record: %+v", out)
	}
}

func TestComputeObjectChangesUnwrapProducesNoRecord(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 3
	p.put(Object{ID: id, Version: 1, Type: "0x2::foo::Bar"})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllChangedObjects: []ChangedObject{{ID: id, Version: 1, Kind: WriteUnwrap}},
	}

	out, err := ComputeObjectChanges(context.Background(), cache, Address{}, effects)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no canonical record for unwrap, got %+v", out)
	}
}

func TestComputeObjectChangesPublishedOnlyOnCreate(t *testing.T) {
	p := newMockProvider()
	var pkgID ObjectID
	pkgID[0] = 4
	p.put(Object{ID: pkgID, Version: 1, IsPackage: true, ModuleNames: []string{"mod"}})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllChangedObjects: []ChangedObject{{ID: pkgID, Version: 1, Kind: WriteCreate}},
	}

	out, err := ComputeObjectChanges(context.Background(), cache, Address{}, effects)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 || out[0].Kind != ChangePublished {
		t.Fatalf("expected a single Published record, got %+v", out)
	}
}

func TestComputeObjectChangesRemovedDeleteAndWrap(t *testing.T) {
	p := newMockProvider()
	var deletedID, wrappedID ObjectID
	deletedID[0], wrappedID[0] = 5, 6
	p.put(Object{ID: deletedID, Version: 1, Type: "0x2::foo::Bar"})
	p.put(Object{ID: wrappedID, Version: 1, Type: "0x2::foo::Bar"})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllRemovedObjects: []RemovedObject{
			{ID: deletedID, Version: 1, Kind: RemoveDelete},
			{ID: wrappedID, Version: 1, Kind: RemoveWrap},
		},
	}

	out, err := ComputeObjectChanges(context.Background(), cache, Address{}, effects)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %+v", out)
	}
	var sawDeleted, sawWrapped bool
	for _, c := range out {
		if c.Kind == ChangeDeleted {
			sawDeleted = true
		}
		if c.Kind == ChangeWrapped {
			sawWrapped = true
		}
	}
	if !sawDeleted || !sawWrapped {
		t.Fatalf("expected both Deleted and Wrapped: %+v", out)
	}
}

func TestComputeExtendedObjectChangesReceivedOnOwnershipChange(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 7
	var sender, receiver Address
	sender[0], receiver[0] = 1, 2

	p.put(Object{ID: id, Version: 2, Type: "0x2::foo::Bar", Owner: AddressOwner(receiver), Payload: []byte{1}})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllChangedObjects: []ChangedObject{
			{ID: id, Version: 2, Owner: AddressOwner(receiver), Kind: WriteMutate},
		},
	}
	inputObjs := []Object{{ID: id, Version: 1, Owner: AddressOwner(sender)}}
	outputObjs := []Object{{ID: id, Version: 2, Owner: AddressOwner(receiver)}}

	out, err := ComputeExtendedObjectChanges(context.Background(), cache, effects, inputObjs, outputObjs)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %+v", out)
	}
	if out[0].Update.Status.Kind != UpdateReceived {
		t.Fatalf("expected Received status, got %+v", out[0].Update.Status)
	}
	if out[0].RouteAddress == nil || *out[0].RouteAddress != receiver {
		t.Fatalf("expected routing to the new owner, got %+v", out[0].RouteAddress)
	}
}

func TestComputeExtendedObjectChangesMutatedSameOwnerNoRoute(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 8
	var owner Address
	owner[0] = 3

	p.put(Object{ID: id, Version: 2, Type: "0x2::foo::Bar", Owner: AddressOwner(owner), Payload: []byte{1}})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllChangedObjects: []ChangedObject{
			{ID: id, Version: 2, Owner: AddressOwner(owner), Kind: WriteMutate},
		},
	}
	inputObjs := []Object{{ID: id, Version: 1, Owner: AddressOwner(owner)}}
	outputObjs := []Object{{ID: id, Version: 2, Owner: AddressOwner(owner)}}

	out, err := ComputeExtendedObjectChanges(context.Background(), cache, effects, inputObjs, outputObjs)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %+v", out)
	}
	if out[0].Update.Status.Kind != UpdateMutated {
		t.Fatalf("expected Mutated status, got %+v", out[0].Update.Status)
	}
	if out[0].RouteAddress != nil {
		t.Fatalf("expected no routing for an unchanged owner, got %+v", out[0].RouteAddress)
	}
}

func TestComputeExtendedObjectChangesSentOnRemoval(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 9
	var sender, receiver Address
	sender[0], receiver[0] = 4, 5

	p.put(Object{ID: id, Version: 1, Type: "0x2::foo::Bar", Owner: AddressOwner(sender), Payload: []byte{1}})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllRemovedObjects: []RemovedObject{{ID: id, Version: 1, Kind: RemoveDelete}},
	}
	inputObjs := []Object{{ID: id, Version: 1, Owner: AddressOwner(sender)}}
	outputObjs := []Object{{ID: id, Version: 1, Owner: AddressOwner(receiver)}}

	out, err := ComputeExtendedObjectChanges(context.Background(), cache, effects, inputObjs, outputObjs)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %+v", out)
	}
	if out[0].Update.Status.Kind != UpdateSent {
		t.Fatalf("expected Sent status, got %+v", out[0].Update.Status)
	}
	if out[0].Update.Status.Sender != sender || out[0].Update.Status.Receiver != receiver {
		t.Fatalf("expected sender/receiver per spec semantics, got %+v", out[0].Update.Status)
	}
	if out[0].RouteAddress == nil || *out[0].RouteAddress != sender {
		t.Fatalf("expected routing to the pre-transaction owner, got %+v", out[0].RouteAddress)
	}
}

func TestComputeExtendedObjectChangesSharedToAddressRoutesToNewOwner(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 11
	var newOwner Address
	newOwner[0] = 12

	p.put(Object{ID: id, Version: 2, Type: "0x2::foo::Bar", Owner: AddressOwner(newOwner), Payload: []byte{1}})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllChangedObjects: []ChangedObject{
			{ID: id, Version: 2, Owner: AddressOwner(newOwner), Kind: WriteMutate},
		},
	}
	// pre-transaction owner was present in the snapshot but was shared, not
	// an address owner; post-transaction owner is an address.
	inputObjs := []Object{{ID: id, Version: 1, Owner: SharedOwner(1)}}
	outputObjs := []Object{{ID: id, Version: 2, Owner: AddressOwner(newOwner)}}

	out, err := ComputeExtendedObjectChanges(context.Background(), cache, effects, inputObjs, outputObjs)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %+v", out)
	}
	if out[0].Update.Status.Kind != UpdateMutated {
		t.Fatalf("expected Mutated status, got %+v", out[0].Update.Status)
	}
	if out[0].RouteAddress == nil || *out[0].RouteAddress != newOwner {
		t.Fatalf("expected routing to the new address owner, got %+v", out[0].RouteAddress)
	}
}

func TestComputeExtendedObjectChangesPlainDeleteOnRemoval(t *testing.T) {
	p := newMockProvider()
	var id ObjectID
	id[0] = 10
	var owner Address
	owner[0] = 6

	p.put(Object{ID: id, Version: 1, Type: "0x2::foo::Bar", Owner: AddressOwner(owner), Payload: []byte{1}})

	cache := NewVersionedObjectCache(p)
	effects := TransactionEffects{
		AllRemovedObjects: []RemovedObject{{ID: id, Version: 1, Kind: RemoveDelete}},
	}
	inputObjs := []Object{{ID: id, Version: 1, Owner: AddressOwner(owner)}}

	out, err := ComputeExtendedObjectChanges(context.Background(), cache, effects, inputObjs, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(out) != 1 || out[0].Update.Status.Kind != UpdateDeleted {
		t.Fatalf("expected a single Deleted record, got %+v", out)
	}
	if out[0].RouteAddress == nil || *out[0].RouteAddress != owner {
		t.Fatalf("expected routing to the object's last known owner, got %+v", out[0].RouteAddress)
	}
}
