package micropay

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/app"
	"github.com/deeper-network/ledger/coin"
	"github.com/deeper-network/ledger/crypto"
	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/ledgertest"
	"github.com/deeper-network/ledger/store"
	"github.com/deeper-network/ledger/x/cash"
	"github.com/deeper-network/ledger/x/utils"
)

func TestChannelHandlers(t *testing.T) {
	payerKey := ledgertest.NewKey()
	payer := payerKey.PublicKey()
	payee := ledgertest.NewAddress()

	// a 33 byte identifier that is not a point on the curve
	junkPayer := ledger.Address(make([]byte, crypto.PubKeySize))

	sign := func(key *crypto.PrivateKey, to ledger.Address, nonce uint32, amount coin.Amount) []byte {
		sig, err := key.Sign(PaymentDigest(to, nonce, amount))
		if err != nil {
			t.Fatalf("cannot sign claim: %+v", err)
		}
		return sig
	}

	cases := map[string]struct {
		funds    coin.Amount
		actions  []action
		balances map[string]coin.Amount
		channels []channelcheck
	}{
		"opening a channel records the pair": {
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
			},
			channels: []channelcheck{
				{payer: payer, payee: payee, exists: true, openedAt: 500},
			},
		},
		"opening the same pair twice fails": {
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers:      []ledger.Address{payer},
					msg:          &OpenChannelMsg{Payee: payee},
					blockTime:    501,
					wantCheckErr: ErrChannelExists,
				},
			},
		},
		"self channel is not allowed": {
			actions: []action{
				{
					signers:      []ledger.Address{payer},
					msg:          &OpenChannelMsg{Payee: payer},
					blockTime:    500,
					wantCheckErr: ErrSelfChannel,
				},
			},
		},
		"unsigned open is rejected": {
			actions: []action{
				{
					msg:          &OpenChannelMsg{Payee: payee},
					blockTime:    500,
					wantCheckErr: errors.ErrUnauthorized,
				},
			},
		},
		"a settled nonce cannot be settled again": {
			funds: 120,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime: 501,
				},
				// a higher claim for the same nonce is validly
				// signed but the nonce is burned
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    80,
						Signature: sign(payerKey, payee, 1, 80),
					},
					blockTime:    502,
					wantCheckErr: ErrNonceConsumed,
				},
			},
			balances: map[string]coin.Amount{
				string(payer): 70,
				string(payee): 50,
			},
			channels: []channelcheck{
				{payer: payer, payee: payee, exists: true, openedAt: 500},
			},
		},
		"a tampered claim does not verify": {
			funds: 120,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:  payer,
						Nonce:  1,
						Amount: 90,
						// signed over a different amount
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime:    501,
					wantCheckErr: ErrFailedSignature,
				},
			},
			balances: map[string]coin.Amount{
				string(payer): 120,
			},
		},
		"a claim signed by another key does not verify": {
			funds: 120,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(ledgertest.NewKey(), payee, 1, 50),
					},
					blockTime:    501,
					wantCheckErr: ErrFailedSignature,
				},
			},
		},
		"claim on a missing channel fails": {
			funds: 120,
			actions: []action{
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime:    500,
					wantCheckErr: ErrChannelNotFound,
				},
			},
		},
		"a malformed claim on a missing channel reports the missing channel": {
			actions: []action{
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: []byte("garbage"),
					},
					blockTime:    500,
					wantCheckErr: ErrChannelNotFound,
				},
			},
		},
		"a malformed signature on an open channel is rejected": {
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: []byte("garbage"),
					},
					blockTime:    501,
					wantCheckErr: ErrInvalidSignature,
				},
			},
		},
		"a zero amount claim consumes the nonce without moving funds": {
			funds: 100,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    0,
						Signature: sign(payerKey, payee, 1, 0),
					},
					blockTime: 501,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime:    502,
					wantCheckErr: ErrNonceConsumed,
				},
			},
			balances: map[string]coin.Amount{
				string(payer): 100,
				string(payee): 0,
			},
		},
		"claim exceeding the payer balance moves nothing": {
			funds: 40,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime:      501,
					wantDeliverErr: errors.ErrInsufficientAmount,
				},
				// the failed transfer must not burn the nonce
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    40,
						Signature: sign(payerKey, payee, 1, 40),
					},
					blockTime: 502,
				},
			},
			balances: map[string]coin.Amount{
				string(payer): 0,
				string(payee): 40,
			},
		},
		"a claim may fully drain the payer account": {
			funds: 50,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime: 501,
				},
			},
			balances: map[string]coin.Amount{
				string(payer): 0,
				string(payee): 50,
			},
		},
		"closing wipes the nonce history for a fresh reopen": {
			funds: 120,
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    50,
						Signature: sign(payerKey, payee, 1, 50),
					},
					blockTime: 501,
				},
				{
					signers:   []ledger.Address{payee},
					msg:       &CloseChannelMsg{Payer: payer},
					blockTime: 502,
				},
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 503,
				},
				// nonce 1 was consumed in the previous
				// incarnation of the channel
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     payer,
						Nonce:     1,
						Amount:    30,
						Signature: sign(payerKey, payee, 1, 30),
					},
					blockTime: 504,
				},
			},
			balances: map[string]coin.Amount{
				string(payer): 40,
				string(payee): 80,
			},
			channels: []channelcheck{
				{payer: payer, payee: payee, exists: true, openedAt: 503},
			},
		},
		"closing a missing channel fails": {
			actions: []action{
				{
					signers:      []ledger.Address{payee},
					msg:          &CloseChannelMsg{Payer: payer},
					blockTime:    500,
					wantCheckErr: ErrChannelNotFound,
				},
			},
		},
		"only the payee side can close": {
			actions: []action{
				{
					signers:   []ledger.Address{payer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				// the payer is not the payee of any (payer, x)
				// channel, so close does not find the pair
				{
					signers:      []ledger.Address{payer},
					msg:          &CloseChannelMsg{Payer: payer},
					blockTime:    501,
					wantCheckErr: ErrChannelNotFound,
				},
			},
			channels: []channelcheck{
				{payer: payer, payee: payee, exists: true, openedAt: 500},
			},
		},
		"a payer identifier off the curve is rejected": {
			actions: []action{
				{
					signers:   []ledger.Address{junkPayer},
					msg:       &OpenChannelMsg{Payee: payee},
					blockTime: 500,
				},
				{
					signers: []ledger.Address{payee},
					msg: &ClaimPaymentMsg{
						Payer:     junkPayer,
						Nonce:     1,
						Amount:    50,
						Signature: make([]byte, crypto.SignatureSize),
					},
					blockTime:    501,
					wantCheckErr: ErrInvalidPubKey,
				},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.NewMemStore()

			cashBucket := cash.NewBucket()
			ctrl := cash.NewController(cashBucket)
			auth := &ledgertest.CtxAuth{Key: "auth"}

			rt := app.NewRouter()
			RegisterRoutes(rt, auth, ctrl)

			if tc.funds > 0 {
				if err := ctrl.IssueCoins(db, payer, tc.funds); err != nil {
					t.Fatalf("cannot fund payer: %+v", err)
				}
			}

			for i, a := range tc.actions {
				ctx := a.ctx(auth)
				if _, err := rt.Check(ctx, db, a.tx()); !errors.Is(err, a.wantCheckErr) {
					t.Logf("want: %+v", a.wantCheckErr)
					t.Logf(" got: %+v", err)
					t.Fatalf("action %d check (%T)", i, a.msg)
				}
				if a.wantCheckErr != nil {
					// Failed checks are causing the message to be ignored.
					continue
				}
				if _, err := rt.Deliver(ctx, db, a.tx()); !errors.Is(err, a.wantDeliverErr) {
					t.Logf("want: %+v", a.wantDeliverErr)
					t.Logf(" got: %+v", err)
					t.Fatalf("action %d delivery (%T)", i, a.msg)
				}
			}

			for addr, want := range tc.balances {
				got, err := ctrl.Balance(db, ledger.Address(addr))
				if err != nil {
					t.Fatalf("cannot query balance: %+v", err)
				}
				if got != want {
					t.Fatalf("address %X: want balance %d, got %d", addr, want, got)
				}
			}
			for _, cc := range tc.channels {
				cc.test(t, db)
			}
		})
	}
}

// TestDecoratedRouterRoundTrip runs the channel lifecycle through the
// full middleware stack that a deployment mounts: logging and panic
// recovery wrapped around the path router.
func TestDecoratedRouterRoundTrip(t *testing.T) {
	payerKey := ledgertest.NewKey()
	payer := payerKey.PublicKey()
	payee := ledgertest.NewAddress()

	db := store.NewMemStore()
	ctrl := cash.NewController(cash.NewBucket())
	auth := &ledgertest.CtxAuth{Key: "auth"}
	rt := app.NewRouter()
	RegisterRoutes(rt, auth, ctrl)
	stack := app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
	).WithHandler(rt)

	if err := ctrl.IssueCoins(db, payer, 100); err != nil {
		t.Fatalf("cannot fund payer: %+v", err)
	}
	logger := log.NewTMLogger(ioutil.Discard)

	open := action{signers: []ledger.Address{payer}, msg: &OpenChannelMsg{Payee: payee}, blockTime: 500}
	ctx := ledger.WithLogger(open.ctx(auth), logger)
	if _, err := stack.Check(ctx, db, open.tx()); err != nil {
		t.Fatalf("open check: %+v", err)
	}
	if _, err := stack.Deliver(ctx, db, open.tx()); err != nil {
		t.Fatalf("open deliver: %+v", err)
	}

	sig, err := payerKey.Sign(PaymentDigest(payee, 1, 60))
	if err != nil {
		t.Fatalf("cannot sign claim: %+v", err)
	}
	claim := action{
		signers:   []ledger.Address{payee},
		msg:       &ClaimPaymentMsg{Payer: payer, Nonce: 1, Amount: 60, Signature: sig},
		blockTime: 501,
	}
	ctx = ledger.WithLogger(claim.ctx(auth), logger)
	if _, err := stack.Check(ctx, db, claim.tx()); err != nil {
		t.Fatalf("claim check: %+v", err)
	}
	if _, err := stack.Deliver(ctx, db, claim.tx()); err != nil {
		t.Fatalf("claim deliver: %+v", err)
	}

	b, err := ctrl.Balance(db, payee)
	if err != nil {
		t.Fatalf("cannot query balance: %+v", err)
	}
	if b != 60 {
		t.Fatalf("want payee balance 60, got %d", b)
	}

	// Handler errors pass through the decorators unchanged.
	if _, err := stack.Check(ctx, db, claim.tx()); !ErrNonceConsumed.Is(err) {
		t.Fatalf("want nonce consumed, got %+v", err)
	}
}

func TestDeliverEmitsTags(t *testing.T) {
	payerKey := ledgertest.NewKey()
	payer := payerKey.PublicKey()
	payee := ledgertest.NewAddress()

	db := store.NewMemStore()
	ctrl := cash.NewController(cash.NewBucket())
	auth := &ledgertest.CtxAuth{Key: "auth"}
	rt := app.NewRouter()
	RegisterRoutes(rt, auth, ctrl)

	if err := ctrl.IssueCoins(db, payer, 100); err != nil {
		t.Fatalf("cannot fund payer: %+v", err)
	}

	open := action{signers: []ledger.Address{payer}, msg: &OpenChannelMsg{Payee: payee}, blockTime: 500}
	res, err := rt.Deliver(open.ctx(auth), db, open.tx())
	if err != nil {
		t.Fatalf("cannot open channel: %+v", err)
	}
	assertTag(t, res.Tags, "action", "channel_opened")
	assertTag(t, res.Tags, "timestamp", "500")

	sig, err := payerKey.Sign(PaymentDigest(payee, 1, 50))
	if err != nil {
		t.Fatalf("cannot sign claim: %+v", err)
	}
	claim := action{
		signers:   []ledger.Address{payee},
		msg:       &ClaimPaymentMsg{Payer: payer, Nonce: 1, Amount: 50, Signature: sig},
		blockTime: 501,
	}
	res, err = rt.Deliver(claim.ctx(auth), db, claim.tx())
	if err != nil {
		t.Fatalf("cannot claim payment: %+v", err)
	}
	assertTag(t, res.Tags, "action", "claim_payment")
	assertTag(t, res.Tags, "amount", "50")
	assertTag(t, res.Tags, "payer", payer.String())
	assertTag(t, res.Tags, "payee", payee.String())

	teardown := action{signers: []ledger.Address{payee}, msg: &CloseChannelMsg{Payer: payer}, blockTime: 502}
	res, err = rt.Deliver(teardown.ctx(auth), db, teardown.tx())
	if err != nil {
		t.Fatalf("cannot close channel: %+v", err)
	}
	assertTag(t, res.Tags, "action", "channel_closed")
	assertTag(t, res.Tags, "timestamp", "502")
}

func assertTag(t *testing.T, tags []common.KVPair, key, value string) {
	t.Helper()
	for _, tag := range tags {
		if string(tag.Key) == key {
			if string(tag.Value) != value {
				t.Fatalf("tag %q: want %q, got %q", key, value, tag.Value)
			}
			return
		}
	}
	t.Fatalf("tag %q not emitted", key)
}

// action represents a single request call that is handled by a handler.
type action struct {
	signers        []ledger.Address
	msg            ledger.Msg
	blockTime      int64
	wantCheckErr   error
	wantDeliverErr error
}

func (a *action) tx() ledger.Tx {
	return &ledgertest.Tx{Msg: a.msg}
}

func (a *action) ctx(auth *ledgertest.CtxAuth) ledger.Context {
	ctx := ledger.WithHeight(context.Background(), a.blockTime)
	ctx = ledger.WithBlockTime(ctx, time.Unix(a.blockTime, 0))
	return auth.SetSigners(ctx, a.signers...)
}

// channelcheck is a declaration of the expected channel registry state.
type channelcheck struct {
	payer    ledger.Address
	payee    ledger.Address
	exists   bool
	openedAt ledger.UnixTime
}

func (cc *channelcheck) test(t *testing.T, db ledger.KVStore) {
	t.Helper()

	bucket := NewChannelBucket()
	if !cc.exists {
		if bucket.Has(db, cc.payer, cc.payee) {
			t.Fatal("channel must not exist")
		}
		return
	}
	c, err := bucket.GetChannel(db, cc.payer, cc.payee)
	if err != nil {
		t.Fatalf("cannot get channel: %+v", err)
	}
	if c.OpenedAt != cc.openedAt {
		t.Fatalf("want opened at %d, got %d", cc.openedAt, c.OpenedAt)
	}
}
