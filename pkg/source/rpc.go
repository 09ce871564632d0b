package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/ratelimit"

	"github.com/matzehuels/blocktower/pkg/cache"
	"github.com/matzehuels/blocktower/pkg/config"
	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/observability"
	"github.com/matzehuels/blocktower/pkg/scene"
)

// Dial opens a JSON-RPC connection to bitcoind in HTTP POST mode.
func Dial(cfg config.RPC) (*rpcclient.Client, error) {
	if cfg.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "rpc host is empty")
	}
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   cfg.DisableTLS,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", cfg.Host)
	}
	return client, nil
}

// RPCSource loads transactions from a bitcoind node.
//
// With a zero Height it projects the next block from the mempool; otherwise
// it loads the mined block at Height.
type RPCSource struct {
	client     NodeClient
	height     int64
	blockLimit int64
	timeout    time.Duration
	noRetry    bool
	limiter    ratelimit.Limiter
}

// RPCOption configures an RPCSource.
type RPCOption func(*RPCSource)

// WithHeight selects a mined block instead of the mempool.
func WithHeight(h int64) RPCOption { return func(s *RPCSource) { s.height = h } }

// WithBlockLimit sets the capacity used to project the mempool.
// Defaults to [scene.DefaultBlockLimit].
func WithBlockLimit(vbytes int64) RPCOption { return func(s *RPCSource) { s.blockLimit = vbytes } }

// WithTimeout bounds each RPC call. Zero means no limit beyond ctx.
func WithTimeout(d time.Duration) RPCOption { return func(s *RPCSource) { s.timeout = d } }

// WithRateLimit caps outgoing calls at rps per second, retries included.
// Zero or less leaves calls unthrottled.
func WithRateLimit(rps int) RPCOption {
	return func(s *RPCSource) {
		if rps > 0 {
			s.limiter = ratelimit.New(rps, ratelimit.WithoutSlack)
		}
	}
}

// WithoutRetry disables the retry with backoff on failed calls.
func WithoutRetry() RPCOption { return func(s *RPCSource) { s.noRetry = true } }

// NewRPCSource creates a source backed by client.
func NewRPCSource(client NodeClient, opts ...RPCOption) *RPCSource {
	s := &RPCSource{client: client, blockLimit: scene.DefaultBlockLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "mempool" or "block:<height>".
func (s *RPCSource) Name() string {
	if s.height > 0 {
		return fmt.Sprintf("block:%d", s.height)
	}
	return "mempool"
}

// Load fetches the projected block or the mined block.
func (s *RPCSource) Load(ctx context.Context) ([]scene.Tx, error) {
	if s.height > 0 {
		return s.Block(ctx, s.height)
	}
	return s.Mempool(ctx)
}

// Mempool returns the projected next block: the highest fee-rate mempool
// transactions that fit the block limit.
func (s *RPCSource) Mempool(ctx context.Context) ([]scene.Tx, error) {
	entries, err := call(ctx, s, "getrawmempool", s.client.GetRawMempoolVerbose)
	if err != nil {
		return nil, err
	}

	txs := make([]scene.Tx, 0, len(entries))
	for id, e := range entries {
		vsize := int64(e.Vsize)
		if vsize == 0 {
			vsize = int64(e.Size)
		}
		fee, err := btcutil.NewAmount(e.Fee)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTx, err, "fee of %s", id)
		}
		txs = append(txs, scene.Tx{ID: id, VSize: vsize, Fee: int64(fee)})
	}
	return Project(txs, s.blockLimit), nil
}

// Block returns the transactions of the mined block at height. Fees are
// unknown without the spent outputs, so every transaction has a zero rate.
func (s *RPCSource) Block(ctx context.Context, height int64) ([]scene.Tx, error) {
	tip, err := call(ctx, s, "getblockcount", s.client.GetBlockCount)
	if err != nil {
		return nil, err
	}
	if height > tip {
		return nil, errors.New(errors.ErrCodeNotFound, "block %d is beyond the tip %d", height, tip)
	}

	hash, err := call(ctx, s, "getblockhash", func() (*chainhash.Hash, error) {
		return s.client.GetBlockHash(height)
	})
	if err != nil {
		return nil, err
	}
	block, err := call(ctx, s, "getblock", func() (*wire.MsgBlock, error) {
		return s.client.GetBlock(hash)
	})
	if err != nil {
		return nil, err
	}
	return FromMsgBlock(block), nil
}

// call runs one RPC with retries, honouring ctx and the per-call timeout.
// rpcclient is not context aware, so the call runs in its own goroutine.
// Errors reported by the node itself are not retried.
func call[T any](ctx context.Context, s *RPCSource, method string, fn func() (T, error)) (T, error) {
	var out T
	attempt := func() error {
		if s.limiter != nil {
			s.limiter.Take()
		}
		v, err := callOnce(ctx, s.timeout, method, fn)
		if err != nil {
			var rpcErr *btcjson.RPCError
			if s.noRetry || stderrors.As(err, &rpcErr) {
				return err
			}
			return cache.Retryable(err)
		}
		out = v
		return nil
	}
	err := cache.RetryWithBackoff(ctx, attempt)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	if errors.Is(err, errors.ErrCodeTimeout) {
		return out, err
	}
	return out, errors.Wrap(errors.ErrCodeNetwork, err, "%s", method)
}

func callOnce[T any](ctx context.Context, timeout time.Duration, method string, fn func() (T, error)) (T, error) {
	hooks := observability.Node()
	hooks.OnCall(ctx, method)
	start := time.Now()

	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		hooks.OnResult(ctx, method, time.Since(start), r.err)
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		err := errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s", method)
		hooks.OnResult(ctx, method, time.Since(start), err)
		return zero, err
	}
}
