package source

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	bterrors "github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/scene"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestReadFileList(t *testing.T) {
	path := writeFile(t, "txs.json", `[
		{"id": "a", "vsize": 250, "fee": 2500},
		{"id": "b", "vsize": 140, "rate": 12.5}
	]`)

	src := FileSource{Path: path}
	require.Equal(t, "file:txs.json", src.Name())

	txs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []scene.Tx{
		{ID: "a", VSize: 250, Fee: 2500},
		{ID: "b", VSize: 140, FeeRate: 12.5},
	}, txs)
	require.Equal(t, 10.0, txs[0].Rate())
}

func TestReadFileSnapshot(t *testing.T) {
	s := scene.New(scene.Config{Width: 100, Height: 100, Resolution: 10}, scene.WithID("snap"))
	s.Enter([]scene.Tx{{ID: "a", VSize: 1000, FeeRate: 3}, {ID: "b", VSize: 2000, FeeRate: 1}}, scene.Left)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	txs, err := ReadFile(writeFile(t, "scene.json", string(data)))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, ids(txs))
}

func TestReadFileBlockHex(t *testing.T) {
	block := testBlock(t, 2)
	txs, err := ReadFile(writeFile(t, "block.hex", hex.EncodeToString(serialize(t, block))))
	require.NoError(t, err)
	require.Len(t, txs, 2)
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code bterrors.Code
	}{
		{"empty", "   ", bterrors.ErrCodeInvalidFormat},
		{"bad json", "[{", bterrors.ErrCodeInvalidFormat},
		{"missing id", `[{"vsize": 10}]`, bterrors.ErrCodeInvalidTx},
		{"zero vsize", `[{"id": "a"}]`, bterrors.ErrCodeInvalidTx},
		{"duplicate", `[{"id": "a", "vsize": 1}, {"id": "a", "vsize": 2}]`, bterrors.ErrCodeInvalidTx},
		{"not a block", "zz", bterrors.ErrCodeInvalidBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(writeFile(t, "in", tt.body))
			require.Error(t, err)
			require.Equal(t, tt.code, bterrors.GetCode(err), "got %v", err)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.True(t, bterrors.Is(err, bterrors.ErrCodeFileNotFound))

	_, err = ReadFile("")
	require.True(t, bterrors.Is(err, bterrors.ErrCodeInvalidPath))
}

func TestStatic(t *testing.T) {
	txs := []scene.Tx{{ID: "a", VSize: 1}}
	src := Static{Label: "fixture", Txs: txs}
	got, err := src.Load(context.Background())
	require.NoError(t, err)
	got[0].ID = "changed"
	require.Equal(t, "a", txs[0].ID)
	require.True(t, strings.HasPrefix(src.Name(), "fix"))
}
