package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/utils"
)

func newVideoCmd() *cobra.Command {
	var quality string
	var format string
	var name string
	var subs bool

	cmd := &cobra.Command{
		Use:     "video [URL...] [--format FORMAT] [--quality QUALITY]",
		Short:   "Download YouTube videos",
		Aliases: []string{"yt"},
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if name != "" && len(args) > 1 {
				fmt.Fprintln(os.Stderr, "Cannot use --name with multiple URLs")
				os.Exit(1)
			}
			var jobs []utils.Job
			for _, url := range args {
				job := utils.Job{
					JobType:   "video",
					URL:       url,
					OutputDir: outputDir,
					Metadata:  make(map[string]any),
				}
				job.Metadata["quality"] = quality
				job.Metadata["format"] = format
				if name != "" {
					job.Metadata["name"] = name
				}
				if subs {
					job.Metadata["subs"] = true
				}
				jobs = append(jobs, job)
			}
			runJobs(jobs)
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "best", "Video quality (best, 1080p, 720p, 480p)")
	cmd.Flags().StringVarP(&format, "format", "f", "mp4", "Container format (mp4, mkv, any)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Custom output basename (single URL only)")
	cmd.Flags().BoolVar(&subs, "subs", false, "Embed subtitles, including auto-generated ones")
	return cmd
}
