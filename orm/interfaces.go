package orm

import "github.com/deeper-network/ledger"

// Validater is anything that can be validated.
// It is ubiquitous in models and messages.
type Validater interface {
	Validate() error
}

// Object is what is stored in the bucket.
// Key is joined with the bucket prefix to form the full db key.
// Value is the data stored.
//
// This can be a light wrapper around a protobuf-defined type.
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid state to
	// save to the db (eg. field missing, out of range, ...).
	Validater
	Value() ledger.Persistent
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Model is implemented by the value types persisted in a bucket.
type Model interface {
	Validater
	ledger.Persistent
}

// CloneableData is an intelligent Value that can be embedded in a simple
// object to handle much of the details.
type CloneableData interface {
	Model
	Copy() CloneableData
}
