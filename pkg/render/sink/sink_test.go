package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/blocktower/pkg/render/styles"
	"github.com/matzehuels/blocktower/pkg/scene"
)

func testSnapshot(txs ...scene.Tx) scene.Snapshot {
	s := scene.New(scene.Config{Width: 100, Height: 100, Resolution: 10}, scene.WithID("test"))
	s.Enter(txs, scene.Left)
	return s.Snapshot()
}

func TestRenderSVGFlipsToTopLeftOrigin(t *testing.T) {
	snap := testSnapshot(
		scene.Tx{ID: "a", VSize: 50_000, FeeRate: 10},
		scene.Tx{ID: "b", VSize: 50_000, FeeRate: 5},
	)
	svg := string(RenderSVG(snap))

	// a takes grid (0,0), b grid (2,0); grid x runs down the screen.
	for _, want := range []string{
		`id="tx-a" class="tx" x="82.00" y="1.00"`,
		`id="tx-b" class="tx" x="82.00" y="21.00"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q in\n%s", want, svg)
		}
	}
}

func TestRenderSVGDocument(t *testing.T) {
	svg := string(RenderSVG(testSnapshot(scene.Tx{ID: "a", VSize: 100})))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.0 100.0"`) {
		t.Errorf("unexpected header: %.80s", svg)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("document not closed")
	}
	if !strings.Contains(svg, `fill="`+styles.Mempool.Background+`"`) {
		t.Error("default background missing")
	}
	if strings.Count(svg, `class="tx"`) != 1 {
		t.Errorf("want exactly one tx rect")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	snap := testSnapshot(scene.Tx{ID: "<&>", VSize: 250, Fee: 2500})

	svg := string(RenderSVG(snap, WithTheme(styles.Mono), WithTitles(), WithoutBackground()))
	if strings.Contains(svg, `width="100%"`) {
		t.Error("background drawn despite WithoutBackground")
	}
	if !strings.Contains(svg, `fill="`+styles.Mono.Color(10)+`"`) {
		t.Error("mono colour not used")
	}
	if !strings.Contains(svg, "<title>&lt;&amp;&gt; · 10.0 sat/vB · 250 vB</title>") {
		t.Errorf("title missing or unescaped:\n%s", svg)
	}
	if strings.Contains(svg, `id="tx-<&>"`) {
		t.Error("id not escaped")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(testSnapshot()))
	if strings.Contains(svg, `class="tx"`) {
		t.Error("empty scene should have no squares")
	}
}

func TestRenderJSON(t *testing.T) {
	snap := testSnapshot(
		scene.Tx{ID: "a", VSize: 200, Fee: 1000},
		scene.Tx{ID: "b", VSize: 300, Fee: 600},
	)

	data, err := RenderJSON(snap, WithJSONTheme("mono"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var got struct {
		ID         string       `json:"id"`
		Width      float64      `json:"width"`
		TxCount    int          `json:"tx_count"`
		TotalVSize int64        `json:"total_vsize"`
		TotalFees  int64        `json:"total_fees"`
		Theme      string       `json:"theme"`
		Items      []scene.Item `json:"items"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != "test" || got.Width != 100 || got.Theme != "mono" {
		t.Errorf("header = %+v", got)
	}
	if got.TxCount != 2 || got.TotalVSize != 500 || got.TotalFees != 1600 {
		t.Errorf("totals = %d txs, %d vB, %d sat", got.TxCount, got.TotalVSize, got.TotalFees)
	}
	if len(got.Items) != 2 || got.Items[0].Tx.ID != "a" {
		t.Errorf("items = %+v", got.Items)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("output should be indented by default")
	}
}

func TestRenderJSONEmptyAndCompact(t *testing.T) {
	data, err := RenderJSON(scene.Snapshot{}, WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(string(data), `"items":[]`) {
		t.Errorf("empty items should encode as [], got %s", data)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("compact output should be a single line")
	}
}
