package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/output"
	"github.com/tubetap/tubetap/internal/ytdlp"
)

func newInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [URL]",
		Short: "Show video metadata without downloading",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ytdlpPath, err := ytdlp.EnsureYtdlp()
			if err != nil {
				output.PrintError(fmt.Sprintf("Error ensuring yt-dlp: %v", err))
				os.Exit(1)
			}
			log.Debug().Str("op", "cmd/info").Msgf("Using yt-dlp %s", ytdlp.Version(ytdlpPath))
			info, err := ytdlp.GetVideoInfo(ytdlpPath, args[0])
			if err != nil {
				output.PrintError(fmt.Sprintf("Error fetching video info: %v", err))
				os.Exit(1)
			}
			if asJSON {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					output.PrintError("Error encoding video info")
					os.Exit(1)
				}
				fmt.Println(string(data))
				return
			}
			output.PrintHeader(info.Title)
			printField("Uploader", info.Uploader)
			printField("Channel", info.Channel)
			printField("Duration", formatDuration(info.Duration))
			printField("Video ID", info.ID)
			printField("URL", info.WebpageURL)
			printField("Thumbnail", info.Thumbnail)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON metadata")
	return cmd
}

func printField(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %s %s\n", output.FDetail(key+":"), value)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	return time.Duration(int64(seconds) * int64(time.Second)).String()
}
