package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktower/pkg/config"
)

func TestSceneFlagsOptions(t *testing.T) {
	cfg := config.Scene{Width: 300, Height: 200, Resolution: 30, BlockLimit: 500_000}

	tests := []struct {
		name string
		args []string
		want [4]float64 // width, height, resolution, block limit
		proj bool
	}{
		{"config only", nil, [4]float64{300, 200, 30, 500_000}, false},
		{"width flag", []string{"--width", "400"}, [4]float64{400, 200, 30, 500_000}, false},
		{"all flags", []string{"--width", "1", "--height", "2", "--resolution", "3", "--block-limit", "4", "--project"}, [4]float64{1, 2, 3, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f sceneFlags
			cmd := &cobra.Command{Use: "x"}
			f.register(cmd)
			f.registerProject(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			opts := f.options(cmd, cfg)
			got := [4]float64{opts.Width, opts.Height, float64(opts.Resolution), float64(opts.BlockLimit)}
			if got != tt.want {
				t.Errorf("options() = %v, want %v", got, tt.want)
			}
			if opts.Project != tt.proj {
				t.Errorf("Project = %v, want %v", opts.Project, tt.proj)
			}
		})
	}
}
