package main

import (
	"context"
	"sync"

	"synnergy-network/core/checkpoint"
)

// fixtureProvider is a demonstration-only ObjectProvider backed by an
// in-memory map. A real deployment supplies a checkpoint-fetch client
// instead — out of scope here, per spec.md's explicit Non-goal on the
// fetch client itself.
type fixtureProvider struct {
	mu   sync.RWMutex
	objs map[fixtureKey]checkpoint.Object
}

type fixtureKey struct {
	id  checkpoint.ObjectID
	ver checkpoint.SequenceNumber
}

func newFixtureProvider() *fixtureProvider {
	return &fixtureProvider{objs: make(map[fixtureKey]checkpoint.Object)}
}

func (p *fixtureProvider) put(obj checkpoint.Object) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objs[fixtureKey{obj.ID, obj.Version}] = obj
}

func (p *fixtureProvider) Get(ctx context.Context, id checkpoint.ObjectID, version checkpoint.SequenceNumber) (checkpoint.Object, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	obj, ok := p.objs[fixtureKey{id, version}]
	if !ok {
		return checkpoint.Object{}, checkpoint.ErrNotFound
	}
	return obj, nil
}

func (p *fixtureProvider) FindLE(ctx context.Context, id checkpoint.ObjectID, version checkpoint.SequenceNumber) (checkpoint.Object, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var best checkpoint.Object
	found := false
	for k, obj := range p.objs {
		if k.id != id || k.ver > version {
			continue
		}
		if !found || k.ver > best.Version {
			best = obj
			found = true
		}
	}
	return best, found, nil
}

// demoCheckpoint seeds the fixture provider with one coin object moving from
// sender to receiver and returns the checkpoint sequence number plus the
// transaction effects describing that move, for wiring demonstration only.
func demoCheckpoint(p *fixtureProvider) (uint64, checkpoint.TransactionEffects) {
	var coinID, gasID checkpoint.ObjectID
	coinID[0] = 0xC0
	gasID[0] = 0x6A

	var sender, receiver checkpoint.Address
	sender[0] = 0x5E
	receiver[0] = 0xBE

	const coinType checkpoint.TypeTag = "0x2::coin::Coin<0x2::sui::SUI>"

	preDigest := checkpoint.ObjectDigest{0x01}
	postDigest := checkpoint.ObjectDigest{0x02}

	p.put(checkpoint.Object{
		ID: coinID, Version: 1, Digest: preDigest,
		Owner: checkpoint.AddressOwner(sender), Type: coinType,
		Payload: checkpoint.EncodeCoinPayload(coinID, 1_000),
	})
	p.put(checkpoint.Object{
		ID: coinID, Version: 2, Digest: postDigest,
		Owner: checkpoint.AddressOwner(receiver), Type: coinType,
		Payload: checkpoint.EncodeCoinPayload(coinID, 1_000),
	})

	effects := checkpoint.TransactionEffects{
		GasObjectID: gasID,
		GasOwner:    checkpoint.AddressOwner(sender),
		Status:      checkpoint.StatusSuccess,
		GasCost:     checkpoint.GasCostSummary{NetGasUsage: 42},
		ModifiedAtVersions: []checkpoint.ModifiedAtVersion{
			{ID: coinID, Version: 1},
		},
		AllChangedObjects: []checkpoint.ChangedObject{
			{ID: coinID, Version: 2, Digest: postDigest, Owner: checkpoint.AddressOwner(receiver), Kind: checkpoint.WriteMutate},
		},
	}
	return 1, effects
}
