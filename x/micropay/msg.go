package micropay

import (
	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/errors"
)

const (
	pathOpenChannelMsg  = "micropay/open"
	pathClaimPaymentMsg = "micropay/claim"
	pathCloseChannelMsg = "micropay/close"
)

var _ ledger.Msg = (*OpenChannelMsg)(nil)

func (m *OpenChannelMsg) Validate() error {
	if err := m.Payee.Validate(); err != nil {
		return errors.Wrap(err, "payee")
	}
	return nil
}

func (OpenChannelMsg) Path() string {
	return pathOpenChannelMsg
}

var _ ledger.Msg = (*ClaimPaymentMsg)(nil)

// Validate checks only the payer identity. Signature encoding and amount
// are constrained by the handler, after the channel and nonce lookups, so
// that a malformed claim against a missing channel still reports
// ErrChannelNotFound.
func (m *ClaimPaymentMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	return nil
}

func (ClaimPaymentMsg) Path() string {
	return pathClaimPaymentMsg
}

var _ ledger.Msg = (*CloseChannelMsg)(nil)

func (m *CloseChannelMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	return nil
}

func (CloseChannelMsg) Path() string {
	return pathCloseChannelMsg
}
