package source

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/scene"
)

// DecodeBlock parses a serialized block. The input may be raw bytes or the
// hex string returned by `getblock <hash> 0`; surrounding whitespace is
// ignored.
func DecodeBlock(r io.Reader) ([]scene.Tx, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlock, err, "read block")
	}
	data = bytes.TrimSpace(data)
	if raw, err := hex.DecodeString(string(data)); err == nil {
		data = raw
	}

	var block wire.MsgBlock
	if err := block.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlock, err, "decode block")
	}
	return FromMsgBlock(&block), nil
}

// FromMsgBlock converts every transaction of block, coinbase included, in
// block order. Virtual sizes follow BIP 141 (weight / 4, rounded up).
func FromMsgBlock(block *wire.MsgBlock) []scene.Tx {
	txs := make([]scene.Tx, 0, len(block.Transactions))
	for _, msg := range block.Transactions {
		tx := btcutil.NewTx(msg)
		txs = append(txs, scene.Tx{
			ID:    tx.Hash().String(),
			VSize: VirtualSize(tx),
		})
	}
	return txs
}

// VirtualSize returns the BIP 141 virtual size of tx.
func VirtualSize(tx *btcutil.Tx) int64 {
	weight := blockchain.GetTransactionWeight(tx)
	return (weight + blockchain.WitnessScaleFactor - 1) / blockchain.WitnessScaleFactor
}
