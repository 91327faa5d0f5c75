package micropay

import (
	"strconv"

	"github.com/tendermint/tendermint/libs/common"

	"github.com/deeper-network/ledger"
	"github.com/deeper-network/ledger/crypto"
	"github.com/deeper-network/ledger/errors"
	"github.com/deeper-network/ledger/x"
	"github.com/deeper-network/ledger/x/cash"
)

const (
	openChannelCost  int64 = 300
	claimPaymentCost int64 = 5
)

// RegisterRoutes wires the micropay handlers into the given registry.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl cash.Controller) {
	bucket := NewChannelBucket()
	nonces := NewNonceRegistry()
	r.Handle(pathOpenChannelMsg, &openChannelHandler{auth: auth, bucket: bucket})
	r.Handle(pathClaimPaymentMsg, &claimPaymentHandler{auth: auth, bucket: bucket, nonces: nonces, cash: ctrl})
	r.Handle(pathCloseChannelMsg, &closeChannelHandler{auth: auth, bucket: bucket, nonces: nonces})
}

type openChannelHandler struct {
	auth   x.Authenticator
	bucket ChannelBucket
}

var _ ledger.Handler = (*openChannelHandler)(nil)

func (h *openChannelHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	var res ledger.CheckResult
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return res, err
	}
	res.GasAllocated += openChannelCost
	return res, nil
}

func (h *openChannelHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	var res ledger.DeliverResult
	msg, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return res, err
	}

	blockTime, err := ledger.BlockTime(ctx)
	if err != nil {
		return res, err
	}
	openedAt := ledger.AsUnixTime(blockTime)

	c := &Channel{
		Payer:    payer,
		Payee:    msg.Payee,
		OpenedAt: openedAt,
	}
	if err := h.bucket.Create(db, c); err != nil {
		return res, err
	}

	res.Tags = channelTags("channel_opened", payer, msg.Payee)
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte("timestamp"),
		Value: []byte(strconv.FormatInt(int64(openedAt), 10)),
	})
	return res, nil
}

func (h *openChannelHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*OpenChannelMsg, ledger.Address, error) {
	var msg OpenChannelMsg
	if err := ledger.ExtractMsgFromTx(tx, &msg); err != nil {
		return nil, nil, err
	}

	payer := x.MainSigner(ctx, h.auth)
	if payer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if payer.Equals(msg.Payee) {
		return nil, nil, errors.Wrap(ErrSelfChannel, "payer equals payee")
	}
	if h.bucket.Has(db, payer, msg.Payee) {
		return nil, nil, errors.Wrap(ErrChannelExists, "pair already registered")
	}
	return &msg, payer, nil
}

type claimPaymentHandler struct {
	auth   x.Authenticator
	bucket ChannelBucket
	nonces NonceRegistry
	cash   cash.Controller
}

var _ ledger.Handler = (*claimPaymentHandler)(nil)

func (h *claimPaymentHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	var res ledger.CheckResult
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return res, err
	}
	res.GasAllocated += claimPaymentCost
	return res, nil
}

func (h *claimPaymentHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	var res ledger.DeliverResult
	msg, payee, err := h.validate(ctx, db, tx)
	if err != nil {
		return res, err
	}

	// All checks passed. Move the funds first so that a failed transfer
	// cannot leave a nonce burned without payment. A full drain of the
	// payer account is allowed. A zero amount claim moves nothing but
	// still consumes the nonce.
	if msg.Amount.IsPositive() {
		if err := h.cash.MoveCoins(db, msg.Payer, payee, msg.Amount); err != nil {
			return res, err
		}
	}
	if err := h.nonces.Consume(db, msg.Payer, payee, msg.Nonce); err != nil {
		return res, err
	}

	res.Tags = channelTags("claim_payment", msg.Payer, payee)
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte("amount"),
		Value: []byte(msg.Amount.String()),
	})
	return res, nil
}

// validate runs every claim precondition in the required order: channel
// existence, nonce freshness, then signature verification. Any failure
// aborts with no state change.
func (h *claimPaymentHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ClaimPaymentMsg, ledger.Address, error) {
	var msg ClaimPaymentMsg
	if err := ledger.ExtractMsgFromTx(tx, &msg); err != nil {
		return nil, nil, err
	}

	payee := x.MainSigner(ctx, h.auth)
	if payee == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}

	if !h.bucket.Has(db, msg.Payer, payee) {
		return nil, nil, errors.Wrap(ErrChannelNotFound, "no channel for pair")
	}
	if h.nonces.Consumed(db, msg.Payer, payee, msg.Nonce) {
		return nil, nil, errors.Wrapf(ErrNonceConsumed, "nonce %d", msg.Nonce)
	}

	pubKey, err := crypto.ParsePubKey(msg.Payer)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidPubKey, err.Error())
	}
	sig, err := crypto.ParseSignature(msg.Signature)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	digest := PaymentDigest(payee, msg.Nonce, msg.Amount)
	if !sig.Verify(digest, pubKey) {
		return nil, nil, errors.Wrap(ErrFailedSignature, "claim digest not authenticated")
	}

	return &msg, payee, nil
}

type closeChannelHandler struct {
	auth   x.Authenticator
	bucket ChannelBucket
	nonces NonceRegistry
}

var _ ledger.Handler = (*closeChannelHandler)(nil)

func (h *closeChannelHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	var res ledger.CheckResult
	_, _, err := h.validate(ctx, db, tx)
	return res, err
}

func (h *closeChannelHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	var res ledger.DeliverResult
	msg, payee, err := h.validate(ctx, db, tx)
	if err != nil {
		return res, err
	}

	blockTime, err := ledger.BlockTime(ctx)
	if err != nil {
		return res, err
	}

	// Wipe the nonce history and the channel record together. Reopening
	// the pair later starts with an empty nonce set.
	h.nonces.DropAll(db, msg.Payer, payee)
	if err := h.bucket.Delete(db, msg.Payer, payee); err != nil {
		return res, err
	}

	res.Tags = channelTags("channel_closed", msg.Payer, payee)
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte("timestamp"),
		Value: []byte(strconv.FormatInt(int64(ledger.AsUnixTime(blockTime)), 10)),
	})
	return res, nil
}

func (h *closeChannelHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CloseChannelMsg, ledger.Address, error) {
	var msg CloseChannelMsg
	if err := ledger.ExtractMsgFromTx(tx, &msg); err != nil {
		return nil, nil, err
	}

	payee := x.MainSigner(ctx, h.auth)
	if payee == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if !h.bucket.Has(db, msg.Payer, payee) {
		return nil, nil, errors.Wrap(ErrChannelNotFound, "no channel for pair")
	}
	return &msg, payee, nil
}

func channelTags(action string, payer, payee ledger.Address) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("action"), Value: []byte(action)},
		{Key: []byte("payer"), Value: []byte(payer.String())},
		{Key: []byte("payee"), Value: []byte(payee.String())},
	}
}
