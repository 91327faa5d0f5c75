package micropay

import (
	"encoding/binary"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/errors"
)

// noncePrefix scopes all nonce records. It must not collide with the
// channel bucket prefix.
var noncePrefix = []byte("micropaync:")

// NonceRegistry tracks which claim sequence numbers were already settled
// for a channel. A present record means the nonce is burned for the life
// of the channel.
type NonceRegistry struct{}

// NewNonceRegistry returns a registry operating on the nonce keyspace.
func NewNonceRegistry() NonceRegistry {
	return NonceRegistry{}
}

func nonceKey(payer, payee ledger.Address, nonce uint32) []byte {
	key := make([]byte, 0, len(noncePrefix)+len(payer)+len(payee)+4)
	key = append(key, noncePrefix...)
	key = append(key, payer...)
	key = append(key, payee...)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], nonce)
	return append(key, n[:]...)
}

// Consumed returns true if the nonce was already settled for this pair.
func (r NonceRegistry) Consumed(db ledger.KVStore, payer, payee ledger.Address, nonce uint32) bool {
	return db.Has(nonceKey(payer, payee, nonce))
}

// Consume burns a nonce. Callers must have confirmed the nonce is not
// consumed yet, a second Consume for the same nonce is a logic error.
func (r NonceRegistry) Consume(db ledger.KVStore, payer, payee ledger.Address, nonce uint32) error {
	key := nonceKey(payer, payee, nonce)
	if db.Has(key) {
		return errors.Wrapf(ErrNonceConsumed, "nonce %d", nonce)
	}
	db.Set(key, []byte{1})
	return nil
}

// DropAll removes every nonce record of the pair in a single bulk
// operation. Used exclusively by channel close.
func (r NonceRegistry) DropAll(db ledger.KVStore, payer, payee ledger.Address) {
	prefix := make([]byte, 0, len(noncePrefix)+len(payer)+len(payee))
	prefix = append(prefix, noncePrefix...)
	prefix = append(prefix, payer...)
	prefix = append(prefix, payee...)
	db.DeletePrefix(prefix)
}
