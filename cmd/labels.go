package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/yolo-viewer/config"
	"github.com/nvr-ai/yolo-viewer/models"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the class labels the model reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := models.LoadLabels(config.Config.Model.Labels)
		if err != nil {
			return err
		}
		return printLabels(cmd.OutOrStdout(), set.Names())
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func printLabels(out io.Writer, names []string) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL")
	for i, name := range names {
		fmt.Fprintf(w, "%d\t%s\n", i, name)
	}
	return w.Flush()
}
