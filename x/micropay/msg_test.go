package micropay

import (
	"testing"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/ledgertest"
)

func TestOpenChannelMsgValidate(t *testing.T) {
	msg := &OpenChannelMsg{Payee: ledgertest.NewAddress()}
	if err := msg.Validate(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	msg = &OpenChannelMsg{}
	if err := msg.Validate(); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty payee error, got %+v", err)
	}

	msg = &OpenChannelMsg{Payee: ledger.Address("too short")}
	if err := msg.Validate(); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid payee error, got %+v", err)
	}
}

func TestClaimPaymentMsgValidate(t *testing.T) {
	payer := ledgertest.NewAddress()
	sig := make([]byte, 64)

	cases := map[string]struct {
		msg     ClaimPaymentMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: ClaimPaymentMsg{Payer: payer, Nonce: 1, Amount: 50, Signature: sig},
		},
		"zero nonce is valid": {
			msg: ClaimPaymentMsg{Payer: payer, Nonce: 0, Amount: 50, Signature: sig},
		},
		"missing payer": {
			msg:     ClaimPaymentMsg{Amount: 50, Signature: sig},
			wantErr: errors.ErrEmpty,
		},
		"zero amount is valid": {
			msg: ClaimPaymentMsg{Payer: payer, Nonce: 1, Signature: sig},
		},
		// Signature encoding is a handler concern, checked after the
		// channel lookup.
		"short signature passes stateless validation": {
			msg: ClaimPaymentMsg{Payer: payer, Nonce: 1, Amount: 50, Signature: sig[:63]},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %+v", err)
				}
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestCloseChannelMsgValidate(t *testing.T) {
	msg := &CloseChannelMsg{Payer: ledgertest.NewAddress()}
	if err := msg.Validate(); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	msg = &CloseChannelMsg{}
	if err := msg.Validate(); !errors.ErrEmpty.Is(err) {
		t.Fatalf("want empty payer error, got %+v", err)
	}
}

func TestMsgPaths(t *testing.T) {
	paths := map[ledger.Msg]string{
		&OpenChannelMsg{}:  "micropay/open",
		&ClaimPaymentMsg{}: "micropay/claim",
		&CloseChannelMsg{}: "micropay/close",
	}
	for msg, want := range paths {
		if got := msg.Path(); got != want {
			t.Fatalf("want %q, got %q", want, got)
		}
	}
}
