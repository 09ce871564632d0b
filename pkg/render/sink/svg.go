package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/blocktower/pkg/render/styles"
	"github.com/matzehuels/blocktower/pkg/scene"
)

const txInteractionCSS = `
    .tx { transition: opacity 0.2s ease; }
    .tx:hover { opacity: 0.7; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme      styles.Theme
	titles     bool
	background bool
}

// WithTheme selects the colour theme. Defaults to [styles.Mempool].
func WithTheme(t styles.Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithTitles adds a hover tooltip with id, fee rate and size to each square.
func WithTitles() SVGOption { return func(r *svgRenderer) { r.titles = true } }

// WithoutBackground leaves the canvas transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// RenderSVG draws snap as a standalone SVG document.
func RenderSVG(snap scene.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{theme: styles.Mempool, background: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		snap.Width, snap.Height, snap.Width, snap.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", txInteractionCSS)

	if r.background {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)
	}
	for _, it := range snap.Items {
		r.renderTx(&buf, snap.Height, it)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderTx(buf *bytes.Buffer, height float64, it scene.Item) {
	rect := it.Screen
	top := height - rect.Y - rect.S
	rate := it.Tx.Rate()

	fmt.Fprintf(buf, `  <rect id="tx-%s" class="tx" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" data-rate="%.2f"`,
		escape(it.Tx.ID), rect.X, top, rect.S, rect.S, r.theme.Color(rate), rate)
	if !r.titles {
		buf.WriteString("/>\n")
		return
	}
	fmt.Fprintf(buf, "><title>%s · %.1f sat/vB · %d vB</title></rect>\n", escape(it.Tx.ID), rate, it.Tx.VSize)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
