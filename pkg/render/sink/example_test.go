package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/blocktower/pkg/render/sink"
	"github.com/matzehuels/blocktower/pkg/scene"
)

func ExampleRenderSVG() {
	s := scene.New(scene.Config{Width: 100, Height: 100, Resolution: 10}, scene.WithID("example"))
	s.Enter([]scene.Tx{{ID: "a", VSize: 50_000, FeeRate: 12}}, scene.Left)

	svg := sink.RenderSVG(s.Snapshot(), sink.WithoutBackground())
	for _, line := range strings.Split(string(svg), "\n") {
		if strings.Contains(line, `class="tx"`) {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// <rect id="tx-a" class="tx" x="82.00" y="1.00" width="18.00" height="18.00" fill="#847d08" data-rate="12.00"/>
}
