package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/output"
	"github.com/tubetap/tubetap/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [path]",
		Short: "Remove temp directories and yt-dlp fragment leftovers",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := outputDir
			if len(args) > 0 {
				dir = args[0]
			}
			if err := utils.CleanTemp(dir); err != nil {
				output.PrintError("Error cleaning up temporary files")
				os.Exit(1)
			}
			removed := 0
			if _, err := os.Stat(dir); err == nil {
				if n, err := utils.CleanFragments(dir); err != nil {
					output.PrintError("Error removing fragment files")
					os.Exit(1)
				} else {
					removed = n
				}
			}
			output.PrintSuccess(fmt.Sprintf("Temporary files cleaned up (%d fragment file(s) removed)", removed))
		},
	}
}
