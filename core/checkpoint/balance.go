package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// VersionedRef is an (id, version, optional digest) triple, the shape the
// balance engines consume on both the input and output side.
type VersionedRef struct {
	ID      ObjectID
	Version SequenceNumber
	Digest  *ObjectDigest
}

type balanceKey struct {
	owner    Owner
	coinType TypeTag
}

// fetchCoins loads each ref via the cache and, for any that decode as a
// coin, returns its (owner, coin type, balance). Non-coin objects are
// silently skipped; digest mismatches and malformed coin payloads are
// fatal and abort the whole computation, per spec.md §4.3/§4.4.
func fetchCoins(ctx context.Context, cache *VersionedObjectCache, refs []VersionedRef) ([]ExtractedCoin, error) {
	out := make([]ExtractedCoin, 0, len(refs))
	for _, ref := range refs {
		obj, err := cache.Get(ctx, ref.ID, ref.Version)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: fetch object %s@%d: %w", ref.ID, ref.Version, err)
		}
		coin, err := ExtractCoin(obj, ref.Digest)
		if errors.Is(err, ErrNotACoin) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, coin)
	}
	return out, nil
}

// ComputeBalanceChanges implements the Balance-Change Engine (spec.md §4.4):
// given the prior-version refs (modifiedAtVersion) and the new-version refs
// (allMutated) of a transaction, it returns one signed BalanceChange per
// (owner, coin type) whose net movement is non-zero.
//
// Callers are expected to have already applied the mocked-coin and
// unwrapped-then-deleted filters to modifiedAtVersion/allMutated (see
// BalanceChangesFromEffects, which does this for TransactionEffects
// directly).
func ComputeBalanceChanges(ctx context.Context, cache *VersionedObjectCache, effects TransactionEffects, modifiedAtVersion, allMutated []VersionedRef) ([]BalanceChange, error) {
	if effects.Status != StatusSuccess {
		logrus.WithFields(logrus.Fields{
			"component": "checkpoint.balance",
			"gas_owner": effects.GasOwner.String(),
			"net_gas":   effects.GasCost.NetGasUsage,
		}).Debug("failed transaction, emitting gas-only balance change")
		return []BalanceChange{{
			Owner:    effects.GasOwner,
			CoinType: GasCoinType,
			Amount:   -effects.GasCost.NetGasUsage,
		}}, nil
	}

	acc := make(map[balanceKey]int64)

	inputs, err := fetchCoins(ctx, cache, modifiedAtVersion)
	if err != nil {
		return nil, err
	}
	for _, coin := range inputs {
		k := balanceKey{coin.Owner, coin.CoinType}
		acc[k] -= int64(coin.Balance)
	}

	outputs, err := fetchCoins(ctx, cache, allMutated)
	if err != nil {
		return nil, err
	}
	for _, coin := range outputs {
		k := balanceKey{coin.Owner, coin.CoinType}
		acc[k] += int64(coin.Balance)
	}

	return sortedBalanceChanges(acc), nil
}

func sortedBalanceChanges(acc map[balanceKey]int64) []BalanceChange {
	out := make([]BalanceChange, 0, len(acc))
	for k, amount := range acc {
		if amount == 0 {
			continue
		}
		out = append(out, BalanceChange{Owner: k.owner, CoinType: k.coinType, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner.String() != out[j].Owner.String() {
			return out[i].Owner.String() < out[j].Owner.String()
		}
		return out[i].CoinType < out[j].CoinType
	})
	return out
}

// BalanceChangesFromEffects derives modifiedAtVersion/allMutated from a
// TransactionEffects plus its input object kinds, applying the mocked-coin
// filter (skipped on both sides) and the unwrapped-then-deleted filter
// (skipped on the input side only, since such objects cannot be resolved
// at a prior version — spec.md §4.4), then calls ComputeBalanceChanges.
func BalanceChangesFromEffects(ctx context.Context, cache *VersionedObjectCache, effects TransactionEffects, inputKinds []InputObjectKind, mockedCoin *ObjectID) ([]BalanceChange, error) {
	inputDigests := make(map[ObjectID]ObjectDigest, len(inputKinds))
	for _, k := range inputKinds {
		if k.Kind == InputImmOrOwnedMoveObject {
			inputDigests[k.ID] = k.Digest
		}
	}

	unwrapped := make(map[ObjectID]struct{}, len(effects.UnwrappedThenDeleted))
	for _, id := range effects.UnwrappedThenDeleted {
		unwrapped[id] = struct{}{}
	}

	isMocked := func(id ObjectID) bool {
		return mockedCoin != nil && id == *mockedCoin
	}

	modifiedAtVersion := make([]VersionedRef, 0, len(effects.ModifiedAtVersions))
	for _, m := range effects.ModifiedAtVersions {
		if isMocked(m.ID) {
			continue
		}
		if _, skip := unwrapped[m.ID]; skip {
			continue
		}
		ref := VersionedRef{ID: m.ID, Version: m.Version}
		if d, ok := inputDigests[m.ID]; ok {
			ref.Digest = &d
		}
		modifiedAtVersion = append(modifiedAtVersion, ref)
	}

	allMutated := make([]VersionedRef, 0, len(effects.AllChangedObjects))
	for _, c := range effects.AllChangedObjects {
		if isMocked(c.ID) {
			continue
		}
		digest := c.Digest
		allMutated = append(allMutated, VersionedRef{ID: c.ID, Version: c.Version, Digest: &digest})
	}

	return ComputeBalanceChanges(ctx, cache, effects, modifiedAtVersion, allMutated)
}
