package ledger

import "github.com/deeper-network/ledger/errors"

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshal, as this almost always requires a pointer,
// and functions that only need to marshal bytes can use the Marshaller
// interface to access non-pointers as well.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Marshaller is anything that can be represented as persistent bytes.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Msg is a message processed by the ledger within a single transaction.
// Messages are protobuf encoded and routed by their path.
type Msg interface {
	Persistent

	// Path returns the routing path for this message, in the form
	// "extension/operation".
	Path() string

	// Validate returns an error if the message content is not valid on
	// its own. Stateful validation belongs in the handler.
	Validate() error
}

// Tx represents the canonical transaction wrapper. It contains exactly one
// message that is to be processed. The production wrapper also carries
// signatures and fees, which this core does not inspect.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// ExtractMsgFromTx is a helper to reduce a repeated pattern in handlers:
// read the message from a transaction and assert its concrete type.
func ExtractMsgFromTx(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrEmpty, "transaction without a message")
	}
	if msg.Path() != destination.Path() {
		return errors.Wrapf(errors.ErrInvalidType, "want %q, got %q", destination.Path(), msg.Path())
	}

	raw, err := msg.Marshal()
	if err != nil {
		return errors.Wrapf(err, "serialize %T message", msg)
	}
	if err := destination.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "deserialize %T message", destination)
	}
	return destination.Validate()
}
