package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/output"
	"github.com/tubetap/tubetap/internal/registry"
)

func newFilesCmd() *cobra.Command {
	var clean bool
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "files [--clean] [--ttl DURATION]",
		Short: "List managed downloads and their expiry",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := registry.NewManager(outputDir, ttl)
			if clean {
				cleaned, err := reg.CleanupExpired()
				if err != nil {
					output.PrintError(fmt.Sprintf("Error cleaning expired files: %v", err))
					return
				}
				output.PrintSuccess(fmt.Sprintf("Removed %d expired file(s)", cleaned))
				return
			}
			files, err := reg.Available()
			if err != nil {
				output.PrintError(fmt.Sprintf("Error listing files: %v", err))
				return
			}
			if len(files) == 0 {
				output.PrintInfo("No files available")
				return
			}
			output.PrintHeader("Available files")
			for _, file := range files {
				fmt.Printf("  %s %s %s %s %s %s\n",
					output.FInfo(output.StyleSymbols["bullet"]),
					file.Name,
					output.FDebug(output.FormatBytes(uint64(file.Size))),
					output.StyleSymbols["dot"],
					output.FDebug("expires in"),
					output.FWarning(file.TimeLeft))
			}
			fmt.Println()
			output.PrintDebug(fmt.Sprintf("  %d file(s), %s total", reg.TotalFiles(), output.FormatBytes(uint64(reg.TotalSize()))))
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Remove expired files now")
	cmd.Flags().DurationVar(&ttl, "ttl", registry.DefaultTTL, "How long downloads are kept")
	return cmd
}
