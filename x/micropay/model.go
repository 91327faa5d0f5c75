package micropay

import (
	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/orm"
)

var _ orm.CloneableData = (*Channel)(nil)

// Validate ensures the channel is valid.
func (c *Channel) Validate() error {
	if err := c.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := c.Payee.Validate(); err != nil {
		return errors.Wrap(err, "payee")
	}
	if c.Payer.Equals(c.Payee) {
		return errors.Wrap(ErrSelfChannel, "payer equals payee")
	}
	return nil
}

// Copy returns a shallow copy of this Channel.
func (c Channel) Copy() orm.CloneableData {
	return &c
}

// channelKey is the composite primary key of a channel. The pair
// (payee, payer) addresses a distinct, independent channel.
func channelKey(payer, payee ledger.Address) []byte {
	key := make([]byte, 0, len(payer)+len(payee))
	key = append(key, payer...)
	return append(key, payee...)
}

// ChannelBucket is a wrapper over orm.Bucket that ensures that only
// Channel entities can be persisted, keyed by the (payer, payee) pair.
type ChannelBucket struct {
	orm.Bucket
}

// NewChannelBucket returns a bucket for storing Channel state.
func NewChannelBucket() ChannelBucket {
	return ChannelBucket{
		Bucket: orm.NewBucket("micropay", orm.NewSimpleObj(nil, &Channel{})),
	}
}

// Has returns true if a channel exists for the pair.
func (b ChannelBucket) Has(db ledger.KVStore, payer, payee ledger.Address) bool {
	return b.Bucket.Has(db, channelKey(payer, payee))
}

// Create persists a new channel. It fails if a channel for the pair
// already exists.
func (b ChannelBucket) Create(db ledger.KVStore, c *Channel) error {
	key := channelKey(c.Payer, c.Payee)
	if b.Bucket.Has(db, key) {
		return errors.Wrap(ErrChannelExists, "pair already registered")
	}
	return b.Bucket.Save(db, orm.NewSimpleObj(key, c))
}

// GetChannel returns the channel for the pair or ErrChannelNotFound.
func (b ChannelBucket) GetChannel(db ledger.KVStore, payer, payee ledger.Address) (*Channel, error) {
	obj, err := b.Bucket.Get(db, channelKey(payer, payee))
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(ErrChannelNotFound, "no channel for pair")
	}
	c, ok := obj.Value().(*Channel)
	if !ok {
		return nil, errors.Wrap(ErrChannelNotFound, "no channel for pair")
	}
	return c, nil
}

// Delete removes the channel record for the pair.
func (b ChannelBucket) Delete(db ledger.KVStore, payer, payee ledger.Address) error {
	return b.Bucket.Delete(db, channelKey(payer, payee))
}

// ListChannels returns all open channels, in key order.
func (b ChannelBucket) ListChannels(db ledger.KVStore) ([]*Channel, error) {
	objs, err := b.Bucket.Iterate(db)
	if err != nil {
		return nil, err
	}
	channels := make([]*Channel, 0, len(objs))
	for _, obj := range objs {
		c, ok := obj.Value().(*Channel)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidModel, "unexpected value %T", obj.Value())
		}
		channels = append(channels, c)
	}
	return channels, nil
}
