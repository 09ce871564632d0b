package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/scene"
)

// FileSource loads transactions from a local file. See [Decode] for the
// accepted formats.
type FileSource struct {
	Path string
}

// Name returns "file:<base name>".
func (f FileSource) Name() string { return "file:" + filepath.Base(f.Path) }

// Load reads and decodes the file.
func (f FileSource) Load(context.Context) ([]scene.Tx, error) {
	return ReadFile(f.Path)
}

// ReadFile reads and decodes the file at path.
func ReadFile(path string) ([]scene.Tx, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	txs, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// Decode accepts three encodings, told apart by their first byte:
//
//   - '[': a JSON array of transactions ({"id", "vsize", "fee", "rate"})
//   - '{': a JSON scene snapshot, as written by the JSON sink
//   - anything else: a serialized block, raw or hex ([DecodeBlock])
//
// Every transaction must have an id and a positive vsize.
func Decode(r io.Reader) ([]scene.Tx, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read input")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty input")
	}

	var txs []scene.Tx
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &txs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode transaction list")
		}
	case '{':
		var snap scene.Snapshot
		if err := json.Unmarshal(trimmed, &snap); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
		}
		txs = make([]scene.Tx, 0, len(snap.Items))
		for _, it := range snap.Items {
			txs = append(txs, it.Tx)
		}
	default:
		return DecodeBlock(bytes.NewReader(trimmed))
	}

	seen := make(map[string]struct{}, len(txs))
	for i, tx := range txs {
		if tx.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidTx, "transaction %d has no id", i)
		}
		if tx.VSize <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidTx, "transaction %s has vsize %d", tx.ID, tx.VSize)
		}
		if _, dup := seen[tx.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTx, "duplicate transaction %s", tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}
	return txs, nil
}
