package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverResultToABCI(t *testing.T) {
	res := DeliverResult{
		Data: []byte{0x01},
		Log:  "all good",
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte("channel_opened")},
		},
		GasUsed: 300,
	}
	tm := res.ToABCI()
	assert.Equal(t, res.Data, tm.Data)
	assert.Equal(t, res.Log, tm.Log)
	assert.Equal(t, res.Tags, tm.Tags)
	assert.Equal(t, res.GasUsed, tm.GasUsed)
}

func TestCheckResultToABCI(t *testing.T) {
	res := CheckResult{
		Data:         []byte{0x02},
		Log:          "queued",
		GasAllocated: 5,
	}
	tm := res.ToABCI()
	assert.Equal(t, res.Data, tm.Data)
	assert.Equal(t, res.Log, tm.Log)
	assert.Equal(t, res.GasAllocated, tm.GasWanted)
}
