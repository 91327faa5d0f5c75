package x

import (
	"context"
	"testing"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/ledgertest"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := ledgertest.NewAddress()
	b := ledgertest.NewAddress()
	c := ledgertest.NewAddress()

	ctx1 := &ledgertest.CtxAuth{Key: "foo"}
	ctx2 := &ledgertest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          ledger.Context
		auth         Authenticator
		mainSigner   ledger.Address
		wantInCtx    ledger.Address
		wantNotInCtx ledger.Address
		wantAll      []ledger.Address
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &ledgertest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &ledgertest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []ledger.Address{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&ledgertest.Auth{Signer: b},
				&ledgertest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []ledger.Address{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []ledger.Address{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx) {
				t.Fatal("address that was expected in context not found")
			}

			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx) {
				t.Fatal("address that was expected not to be in context found")
			}

			all := tc.auth.GetSigners(tc.ctx)
			assert.Equal(t, tc.wantAll, all)

			if !HasAllAddresses(tc.ctx, tc.auth, all) {
				t.Fatal("has all addresses check failed")
			}
			if tc.wantNotInCtx != nil && HasAllAddresses(tc.ctx, tc.auth, append(all, tc.wantNotInCtx)) {
				t.Fatal("has all addresses succeeded after adding non existing address")
			}

			if len(all) > 0 {
				if !HasNAddresses(tc.ctx, tc.auth, all, len(all)-1) {
					t.Fatal("want address check of a subset to succeed")
				}
				if HasNAddresses(tc.ctx, tc.auth, all, len(all)+1) {
					t.Fatal("want address check of a superset to fail")
				}
			}
		})
	}
}
