package cash

import (
	"testing"

	"github.com/deeper-network/ledger/coin"
	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/ledgertest"
	"github.com/deeper-network/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T) {
	addr := ledgertest.NewAddress()
	other := ledgertest.NewAddress()

	db := store.NewMemStore()
	ctrl := NewController(NewBucket())

	require.NoError(t, ctrl.IssueCoins(db, addr, 125))

	b, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(125), b)

	// an account without a wallet record has a zero balance
	b, err = ctrl.Balance(db, other)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(0), b)
}

func TestMoveCoins(t *testing.T) {
	src := ledgertest.NewAddress()
	dest := ledgertest.NewAddress()

	cases := map[string]struct {
		initial  coin.Amount
		transfer coin.Amount
		wantErr  *errors.Error
		wantSrc  coin.Amount
		wantDest coin.Amount
	}{
		"partial transfer": {
			initial:  100,
			transfer: 40,
			wantSrc:  60,
			wantDest: 40,
		},
		"full drain": {
			initial:  100,
			transfer: 100,
			wantSrc:  0,
			wantDest: 100,
		},
		"insufficient funds": {
			initial:  30,
			transfer: 31,
			wantErr:  errors.ErrInsufficientAmount,
			wantSrc:  30,
		},
		"empty account": {
			initial:  0,
			transfer: 1,
			wantErr:  errors.ErrInsufficientAmount,
		},
		"zero transfer": {
			initial:  100,
			transfer: 0,
			wantErr:  errors.ErrInvalidAmount,
			wantSrc:  100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.NewMemStore()
			ctrl := NewController(NewBucket())
			if tc.initial > 0 {
				require.NoError(t, ctrl.IssueCoins(db, src, tc.initial))
			}

			err := ctrl.MoveCoins(db, src, dest, tc.transfer)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %v, got %+v", tc.wantErr, err)
				}
				return
			}
			require.NoError(t, err)

			b, err := ctrl.Balance(db, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, b)

			b, err = ctrl.Balance(db, dest)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, b)
		})
	}
}

func TestMoveCoinsRejectsSelfTransfer(t *testing.T) {
	addr := ledgertest.NewAddress()

	db := store.NewMemStore()
	ctrl := NewController(NewBucket())
	require.NoError(t, ctrl.IssueCoins(db, addr, 100))

	err := ctrl.MoveCoins(db, addr, addr, 100)
	if !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid input, got %+v", err)
	}

	// The balance must be untouched, a self transfer must not mint.
	b, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(100), b)
}

func TestMoveCoinsRemovesDrainedWallet(t *testing.T) {
	src := ledgertest.NewAddress()
	dest := ledgertest.NewAddress()

	db := store.NewMemStore()
	bucket := NewBucket()
	ctrl := NewController(bucket)

	require.NoError(t, ctrl.IssueCoins(db, src, 77))
	require.NoError(t, ctrl.MoveCoins(db, src, dest, 77))

	if bucket.Has(db, src) {
		t.Fatal("drained wallet record must be deleted")
	}

	// the account can be funded again later
	require.NoError(t, ctrl.IssueCoins(db, src, 5))
	b, err := ctrl.Balance(db, src)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(5), b)
}
