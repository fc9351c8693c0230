package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

type extendedKey struct {
	owner    Owner
	coinType TypeTag
	objectID ObjectID
}

// ComputeExtendedBalanceChanges implements the Extended Balance-Change
// Engine (spec.md §4.5): the same accumulation as ComputeBalanceChanges, but
// keyed additionally by object id (one record per object), then
// reclassified against the input/output owner maps, then appended with a
// synthetic gas record.
//
// statusMap, inputOwners and outputOwners are keyed by canonical object id
// string (Object.ID.String()).
func ComputeExtendedBalanceChanges(
	ctx context.Context,
	cache *VersionedObjectCache,
	effects TransactionEffects,
	modifiedAtVersion, allMutated []VersionedRef,
	statusMap map[string]ObjectStatus,
	inputOwners, outputOwners map[string]Owner,
) ([]ExtendedBalanceChange, error) {
	if effects.Status != StatusSuccess {
		return []ExtendedBalanceChange{{
			Owner:     effects.GasOwner,
			CoinType:  GasCoinType,
			Amount:    -effects.GasCost.NetGasUsage,
			ObjectID:  effects.GasObjectID.String(),
			Status:    StatusMutated,
			GasChange: true,
		}}, nil
	}

	acc := make(map[extendedKey]int64)

	inputs, inputIDs, err := fetchCoinsWithID(ctx, cache, modifiedAtVersion)
	if err != nil {
		return nil, err
	}
	for i, coin := range inputs {
		k := extendedKey{coin.Owner, coin.CoinType, inputIDs[i]}
		acc[k] -= int64(coin.Balance)
	}

	outputs, outputIDs, err := fetchCoinsWithID(ctx, cache, allMutated)
	if err != nil {
		return nil, err
	}
	for i, coin := range outputs {
		k := extendedKey{coin.Owner, coin.CoinType, outputIDs[i]}
		acc[k] += int64(coin.Balance)
	}

	type rawChange struct {
		key    extendedKey
		amount int64
	}
	raw := make([]rawChange, 0, len(acc))
	for k, amount := range acc {
		raw = append(raw, rawChange{k, amount})
	}
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].key.owner.String() != raw[j].key.owner.String() {
			return raw[i].key.owner.String() < raw[j].key.owner.String()
		}
		if raw[i].key.coinType != raw[j].key.coinType {
			return raw[i].key.coinType < raw[j].key.coinType
		}
		return raw[i].key.objectID.String() < raw[j].key.objectID.String()
	})

	out := make([]ExtendedBalanceChange, 0, len(raw)+1)
	for _, rc := range raw {
		idStr := rc.key.objectID.String()

		if oldOwner, ok := inputOwners[idStr]; ok && !oldOwner.Equal(rc.key.owner) {
			out = append(out, ExtendedBalanceChange{
				Owner: rc.key.owner, CoinType: rc.key.coinType, Amount: rc.amount,
				ObjectID: idStr, Status: StatusCreated,
			})
			continue
		}
		if oldOwner, ok := outputOwners[idStr]; ok && !oldOwner.Equal(rc.key.owner) {
			out = append(out, ExtendedBalanceChange{
				Owner: rc.key.owner, CoinType: rc.key.coinType, Amount: rc.amount,
				ObjectID: idStr, Status: StatusDeleted,
			})
			continue
		}

		status, ok := statusMap[idStr]
		if !ok {
			return nil, fmt.Errorf("checkpoint: object %s used in extended balance computation but absent from status map: %w", idStr, ErrMissingStatus)
		}
		out = append(out, ExtendedBalanceChange{
			Owner: rc.key.owner, CoinType: rc.key.coinType, Amount: rc.amount,
			ObjectID: idStr, Status: status,
		})
	}

	out = append(out, ExtendedBalanceChange{
		Owner:     effects.GasOwner,
		CoinType:  GasCoinType,
		Amount:    effects.GasCost.NetGasUsage,
		ObjectID:  effects.GasObjectID.String(),
		Status:    StatusMutated,
		GasChange: true,
	})

	logrus.WithFields(logrus.Fields{
		"component": "checkpoint.extended_balance",
		"records":   len(out),
	}).Debug("computed extended balance changes")
	return out, nil
}

func fetchCoinsWithID(ctx context.Context, cache *VersionedObjectCache, refs []VersionedRef) ([]ExtractedCoin, []ObjectID, error) {
	coins := make([]ExtractedCoin, 0, len(refs))
	ids := make([]ObjectID, 0, len(refs))
	for _, ref := range refs {
		obj, err := cache.Get(ctx, ref.ID, ref.Version)
		if err != nil {
			return nil, nil, fmt.Errorf("checkpoint: fetch object %s@%d: %w", ref.ID, ref.Version, err)
		}
		coin, err := ExtractCoin(obj, ref.Digest)
		if errors.Is(err, ErrNotACoin) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		coins = append(coins, coin)
		ids = append(ids, ref.ID)
	}
	return coins, ids, nil
}
