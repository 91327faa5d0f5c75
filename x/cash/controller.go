package cash

import (
	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/coin"
	"github.com/deeper-network/ledger/errors"
)

// Controller is the functionality needed by other extensions to move
// funds between accounts. BaseController should work plenty fine, but
// you can add other logic if so desired.
type Controller interface {
	MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Amount) error
	IssueCoins(db ledger.KVStore, dest ledger.Address, amount coin.Amount) error
	Balance(db ledger.KVStore, addr ledger.Address) (coin.Amount, error)
}

// BaseController implements Controller with the wallet bucket as the
// backing store.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the free balance of the given account. A missing
// wallet record is a zero balance, not an error.
func (c BaseController) Balance(db ledger.KVStore, addr ledger.Address) (coin.Amount, error) {
	wallet, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Balance(), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient funds, it fails. A
// wallet drained to zero is removed from the store.
func (c BaseController) MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	// The sender and recipient wallets are loaded as independent copies,
	// so a self transfer would double count the amount.
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidInput, "same source and destination")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if sender.Balance() < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %s, transfer %s", sender.Balance(), amount)
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if sender.Balance().IsZero() {
		if err := c.bucket.Delete(db, src); err != nil {
			return err
		}
	} else {
		if err := c.bucket.Save(db, sender); err != nil {
			return err
		}
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount to the destination
// account, minting new funds. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db ledger.KVStore, dest ledger.Address, amount coin.Amount) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
