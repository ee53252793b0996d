package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/papercast/papercast/pkg/podcasttts"
)

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "List built-in speaker pairings",
	Long: `List built-in speaker pairings.

The podcast resource only accepts voices with the _v2_saturn_bigtts
suffix. Pass a preset name to 'generate --speakers', or pass two voice
ids directly as 'voice1,voice2'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			return outputResult(podcasttts.Presets(), getOutputFile(), true)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVOICES\tDESCRIPTION")
		for _, p := range podcasttts.Presets() {
			name := p.Name
			if p.Name == podcasttts.DefaultPreset().Name {
				name += " (default)"
			}
			fmt.Fprintf(w, "%s\t%s, %s\t%s\n", name, p.Voices[0], p.Voices[1], p.Description)
		}
		return w.Flush()
	},
}
