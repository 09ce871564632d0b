package source

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// NodeClient is the subset of the bitcoind RPC API used by [RPCSource].
// *rpcclient.Client satisfies it.
type NodeClient interface {
	GetRawMempoolVerbose() (map[string]btcjson.GetRawMempoolVerboseResult, error)
	GetBlockCount() (int64, error)
	GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
	GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
}
