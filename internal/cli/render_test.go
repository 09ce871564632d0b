package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktower/pkg/cache"
	"github.com/matzehuels/blocktower/pkg/errors"
	"github.com/matzehuels/blocktower/pkg/pipeline"
	"github.com/matzehuels/blocktower/pkg/scene"
	"github.com/matzehuels/blocktower/pkg/source"
)

var cliTxs = []scene.Tx{
	{ID: "a", VSize: 50_000, FeeRate: 10},
	{ID: "b", VSize: 50_000, FeeRate: 5},
	{ID: "c", VSize: 5_000, FeeRate: 1},
}

func writeTxFile(t *testing.T, dir string) string {
	t.Helper()
	data, err := json.Marshal(cliTxs)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "block.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteArtifacts(t *testing.T) {
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	tests := []struct {
		name    string
		formats []string
		base    string
		want    []string
	}{
		{"single with extension", []string{"svg"}, "out.svg", []string{"out.svg"}},
		{"single without extension", []string{"svg"}, "out", []string{"out.svg"}},
		{"multiple", []string{"svg", "json"}, "out", []string{"out.svg", "out.json"}},
		{"multiple strips format extension", []string{"svg", "json"}, "out.svg", []string{"out.svg", "out.json"}},
		{"other extension kept", []string{"json"}, "out.v2", []string{"out.v2.json"}},
		{"nested dir", []string{"json"}, "a/b/out", []string{"a/b/out.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			paths, err := writeArtifacts(artifacts, tt.formats, filepath.Join(dir, tt.base))
			if err != nil {
				t.Fatalf("writeArtifacts: %v", err)
			}
			if len(paths) != len(tt.want) {
				t.Fatalf("got %d paths, want %d", len(paths), len(tt.want))
			}
			for i, want := range tt.want {
				want = filepath.Join(dir, filepath.FromSlash(want))
				if paths[i] != want {
					t.Errorf("paths[%d] = %q, want %q", i, paths[i], want)
				}
				if _, err := os.Stat(want); err != nil {
					t.Errorf("%s not written: %v", want, err)
				}
			}
		})
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name   string
		output string
		src    source.Source
		want   string
	}{
		{"explicit", "x.svg", source.FileSource{Path: "in.json"}, "x.svg"},
		{"file source", "", source.FileSource{Path: filepath.Join("data", "block.hex")}, filepath.Join("data", "block")},
		{"named source", "", source.Static{Label: "block:840000"}, "block-840000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.src); got != tt.want {
				t.Errorf("outputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSource(t *testing.T) {
	c := New(io.Discard, LogInfo)

	tests := []struct {
		name string
		args []string
		opts renderOpts
		code errors.Code
	}{
		{"nothing", nil, renderOpts{}, errors.ErrCodeInvalidInput},
		{"file and mempool", []string{"x.json"}, renderOpts{mempool: true}, errors.ErrCodeInvalidInput},
		{"negative height", nil, renderOpts{block: -1}, errors.ErrCodeInvalidInput},
		{"bad path", []string{"bad\x00path"}, renderOpts{}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, closeSrc, err := c.renderSource(tt.args, &tt.opts, scene.DefaultBlockLimit)
			closeSrc()
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}

	src, closeSrc, err := c.renderSource([]string{"x.json"}, &renderOpts{}, scene.DefaultBlockLimit)
	defer closeSrc()
	if err != nil {
		t.Fatalf("renderSource(file): %v", err)
	}
	if f, ok := src.(source.FileSource); !ok || f.Path != "x.json" {
		t.Errorf("renderSource(file) = %#v", src)
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)
	ctx := withLogger(context.Background(), logger)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)

	opts := pipeline.Options{
		Width:      100,
		Height:     100,
		Resolution: 10,
		Formats:    []string{pipeline.FormatSVG, pipeline.FormatJSON},
	}
	base := filepath.Join(dir, "out")
	if err := runRender(ctx, runner, source.Static{Label: "test", Txs: cliTxs}, opts, base); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("unexpected svg output: %.40q", svg)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	txs, err := source.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if len(txs) != len(cliTxs) {
		t.Errorf("json output has %d txs, want %d", len(txs), len(cliTxs))
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTxFile(t, dir)
	out := filepath.Join(dir, "out", "block.json")

	_, err := execute(t, "render", in, "-o", out, "-f", "json", "--width", "100", "--height", "100", "--resolution", "10", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	txs, err := source.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(txs) != len(cliTxs) {
		t.Errorf("output has %d txs, want %d", len(txs), len(cliTxs))
	}
}

func TestRenderCommandRejectsBadFormat(t *testing.T) {
	in := writeTxFile(t, t.TempDir())
	_, err := execute(t, "render", in, "-f", "gif", "--no-cache")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestRenderCommandMutuallyExclusive(t *testing.T) {
	if _, err := execute(t, "render", "--mempool", "--block", "1"); err == nil {
		t.Fatal("expected an error for --mempool with --block")
	}
}
