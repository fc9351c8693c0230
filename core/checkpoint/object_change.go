package checkpoint

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var objectChangeLog = logrus.WithField("component", "checkpoint.object_change")

// ComputeObjectChanges implements the canonical half of the Object-Change
// Engine (spec.md §4.6.A): one Created/Mutated/Published record per changed
// object, one Deleted/Wrapped record per removed object. Unwrap write-kinds
// produce no canonical record (absorbed into Mutated semantics upstream, per
// spec.md §4.6).
func ComputeObjectChanges(ctx context.Context, cache *VersionedObjectCache, sender Address, effects TransactionEffects) ([]ObjectChange, error) {
	modifiedAtVersion := make(map[ObjectID]SequenceNumber, len(effects.ModifiedAtVersions))
	for _, m := range effects.ModifiedAtVersions {
		modifiedAtVersion[m.ID] = m.Version
	}

	var out []ObjectChange

	for _, c := range effects.AllChangedObjects {
		obj, err := cache.Get(ctx, c.ID, c.Version)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: fetch changed object %s@%d: %w", c.ID, c.Version, err)
		}

		if obj.IsPackage {
			if c.Kind == WriteCreate {
				out = append(out, ObjectChange{
					Kind:        ChangePublished,
					PackageID:   c.ID,
					Version:     c.Version,
					Digest:      c.Digest,
					ModuleNames: obj.ModuleNames,
				})
			}
			continue
		}
		if obj.Type == "" {
			continue
		}

		switch c.Kind {
		case WriteMutate:
			out = append(out, ObjectChange{
				Kind: ChangeMutated, Sender: sender, Owner: c.Owner, Type: obj.Type,
				ObjectID: c.ID, Version: c.Version, PreviousVersion: modifiedAtVersion[c.ID], Digest: c.Digest,
			})
		case WriteCreate:
			out = append(out, ObjectChange{
				Kind: ChangeCreated, Sender: sender, Owner: c.Owner, Type: obj.Type,
				ObjectID: c.ID, Version: c.Version, Digest: c.Digest,
			})
		case WriteUnwrap:
			// no canonical record
		}
	}

	for _, r := range effects.AllRemovedObjects {
		obj, ok, err := cache.FindLE(ctx, r.ID, r.Version)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: resolve removed object %s<=%d: %w", r.ID, r.Version, err)
		}
		if !ok || obj.IsPackage || obj.Type == "" {
			continue
		}
		switch r.Kind {
		case RemoveDelete:
			out = append(out, ObjectChange{Kind: ChangeDeleted, Sender: sender, Type: obj.Type, ObjectID: r.ID, Version: r.Version})
		case RemoveWrap:
			out = append(out, ObjectChange{Kind: ChangeWrapped, Sender: sender, Type: obj.Type, ObjectID: r.ID, Version: r.Version})
		}
	}

	return out, nil
}

// ownerAddrMap maps canonical object id -> (*Address or nil if the object's
// owner is not an address owner). A missing key means the object id was not
// present in the snapshot at all.
func ownerAddrMap(objs []Object) map[string]*Address {
	m := make(map[string]*Address, len(objs))
	for _, o := range objs {
		if addr, ok := o.Owner.GetAddress(); ok {
			a := addr
			m[o.ID.String()] = &a
		} else {
			m[o.ID.String()] = nil
		}
	}
	return m
}

// ComputeExtendedObjectChanges implements the extended half of the
// Object-Change Engine (spec.md §4.6.B): ObjectChangeUpdate records with an
// optional routing address, classified by comparing pre- and
// post-transaction ownership.
func ComputeExtendedObjectChanges(
	ctx context.Context,
	cache *VersionedObjectCache,
	effects TransactionEffects,
	inputObjects, outputObjects []Object,
) ([]RoutedObjectChangeUpdate, error) {
	inputOwners := ownerAddrMap(inputObjects)
	outputOwners := ownerAddrMap(outputObjects)

	var out []RoutedObjectChangeUpdate

	for _, c := range effects.AllChangedObjects {
		if c.Kind != WriteMutate && c.Kind != WriteCreate {
			continue
		}
		obj, err := cache.Get(ctx, c.ID, c.Version)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: fetch changed object %s@%d: %w", c.ID, c.Version, err)
		}
		if obj.IsPackage || obj.Type == "" {
			continue
		}
		idStr := c.ID.String()

		preOwner, presentInInput := inputOwners[idStr]
		if c.Kind == WriteMutate && !presentInInput {
			objectChangeLog.Warnf("mutated object %s has no entry in the input-owners map: %v", idStr, ErrMissingInputOwner)
			continue
		}

		var postOwnerPtr *Address
		if addr, ok := c.Owner.GetAddress(); ok {
			postOwnerPtr = &addr
		}

		defaultStatus := UpdateMutated
		if c.Kind == WriteCreate {
			defaultStatus = UpdateCreated
		}

		update := ObjectChangeUpdate{
			ObjectID:      idStr,
			ObjectType:    strPtr(string(obj.Type)),
			ObjectVersion: u64Ptr(uint64(c.Version)),
			ObjectBCS:     obj.Payload,
		}

		var route *Address
		switch {
		case presentInInput && preOwner != nil && postOwnerPtr != nil && *preOwner != *postOwnerPtr:
			update.Status = ObjectUpdateStatus{Kind: UpdateReceived, Sender: *preOwner, Receiver: *postOwnerPtr}
			route = postOwnerPtr
		case presentInInput && preOwner != nil && postOwnerPtr != nil:
			update.Status = ObjectUpdateStatus{Kind: UpdateMutated}
		case !presentInInput && postOwnerPtr != nil:
			update.Status = ObjectUpdateStatus{Kind: defaultStatus}
			route = postOwnerPtr
		case presentInInput && preOwner == nil && postOwnerPtr != nil:
			// pre-transaction owner was present but not an address owner
			// (shared/object-owned/immutable); route to the new address owner.
			update.Status = ObjectUpdateStatus{Kind: defaultStatus}
			route = postOwnerPtr
		default:
			update.Status = ObjectUpdateStatus{Kind: defaultStatus}
		}

		out = append(out, RoutedObjectChangeUpdate{RouteAddress: route, Update: update})
	}

	for _, r := range effects.AllRemovedObjects {
		obj, ok, err := cache.FindLE(ctx, r.ID, r.Version)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: resolve removed object %s<=%d: %w", r.ID, r.Version, err)
		}
		if !ok || obj.IsPackage || obj.Type == "" {
			continue
		}
		if len(obj.Payload) == 0 {
			objectChangeLog.Warnf("removed object %s has no decodable move payload; omitting extended record", r.ID)
			continue
		}
		idStr := r.ID.String()

		update := ObjectChangeUpdate{
			ObjectID:      idStr,
			ObjectType:    strPtr(string(obj.Type)),
			ObjectVersion: u64Ptr(uint64(r.Version)),
			ObjectBCS:     obj.Payload,
		}

		if newOwner, hasOutput := outputOwners[idStr]; hasOutput {
			oldOwner, hasInput := inputOwners[idStr]
			if !hasInput {
				objectChangeLog.Warnf("removed object %s changed ownership but has no entry in the input-owners map: %v", idStr, ErrMissingInputOwner)
				continue
			}
			var route *Address
			if oldOwner != nil {
				route = oldOwner
			}
			if newOwner != nil {
				var sentFrom Address
				if oldOwner != nil {
					sentFrom = *oldOwner
				}
				update.Status = ObjectUpdateStatus{Kind: UpdateSent, Sender: sentFrom, Receiver: *newOwner}
			} else {
				update.Status = ObjectUpdateStatus{Kind: UpdateDeleted}
			}
			out = append(out, RoutedObjectChangeUpdate{RouteAddress: route, Update: update})
			continue
		}

		var route *Address
		if addr, ok := obj.Owner.GetAddress(); ok {
			a := addr
			route = &a
		}
		update.Status = ObjectUpdateStatus{Kind: UpdateDeleted}
		out = append(out, RoutedObjectChangeUpdate{RouteAddress: route, Update: update})
	}

	return out, nil
}

func strPtr(s string) *string { return &s }
func u64Ptr(v uint64) *uint64 { return &v }
