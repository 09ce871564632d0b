package sink

import (
	"encoding/json"

	"github.com/matzehuels/blocktower/pkg/scene"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	theme  string
	indent bool
}

// WithJSONTheme records the theme name used for companion SVG output.
func WithJSONTheme(name string) JSONOption { return func(r *jsonRenderer) { r.theme = name } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.indent = false } }

type jsonScene struct {
	scene.Snapshot
	TxCount    int    `json:"tx_count"`
	TotalVSize int64  `json:"total_vsize"`
	TotalFees  int64  `json:"total_fees"`
	Theme      string `json:"theme,omitempty"`
}

// RenderJSON encodes snap with its totals.
func RenderJSON(snap scene.Snapshot, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{indent: true}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonScene{
		Snapshot:   snap,
		TxCount:    len(snap.Items),
		TotalVSize: snap.TotalVSize(),
		TotalFees:  snap.TotalFees(),
		Theme:      r.theme,
	}
	if out.Items == nil {
		out.Items = []scene.Item{}
	}
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
