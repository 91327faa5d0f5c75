package cash

import (
	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/coin"
	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/orm"
)

// BucketName is where we store the balances.
const BucketName = "cash"

//---- Set

// Validate ensures the balance is a legal amount.
func (s *Set) Validate() error {
	return nil
}

// Copy makes a new set with the same balance.
func (s *Set) Copy() *Set {
	return &Set{
		Balance: s.Balance,
	}
}

//--- Wallet (Set object, balance + key)

// Wallet is the actual object that we want to pass around in our code.
// It contains the free balance of an account, as well as the address.
// It is connected to the Bucket to easily manipulate state.
//
// Wallet is a type-safe wrapper around orm.SimpleObj.
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address.
func NewWallet(key ledger.Address) *Wallet {
	return &Wallet{
		key:   key,
		value: new(Set),
	}
}

// Value gets the value stored in the object.
func (w Wallet) Value() ledger.Persistent {
	return w.value
}

// Key returns the key to store the object under.
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present.
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	return w.value.Validate()
}

// SetKey may be used to update a wallet key.
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object.
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy(),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Balance returns the free balance stored in the wallet.
func (w Wallet) Balance() coin.Amount {
	return w.value.GetBalance()
}

// Add modifies the wallet to add the given amount.
func (w *Wallet) Add(a coin.Amount) error {
	total, err := w.Balance().Add(a)
	if err != nil {
		return err
	}
	w.value.Balance = total
	return nil
}

// Subtract modifies the wallet to remove the given amount.
func (w *Wallet) Subtract(a coin.Amount) error {
	rest, err := w.Balance().Sub(a)
	if err != nil {
		return err
	}
	w.value.Balance = rest
	return nil
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

func (b Bucket) Get(db ledger.KVStore, key ledger.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*Wallet), nil
}

func (b Bucket) Save(db ledger.KVStore, wallet *Wallet) error {
	return b.Bucket.Save(db, wallet)
}

func (b Bucket) GetOrCreate(db ledger.KVStore, key ledger.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}
