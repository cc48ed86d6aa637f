package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/utils"
)

func newAudioCmd() *cobra.Command {
	var quality string
	var name string
	var tagTitle string
	var tagArtist string
	var noThumbnail bool
	var noMetadata bool

	cmd := &cobra.Command{
		Use:     "audio [URL...] [--quality QUALITY] [--name NAME]",
		Short:   "Download YouTube videos as MP3",
		Aliases: []string{"mp3"},
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if name != "" && len(args) > 1 {
				fmt.Fprintln(os.Stderr, "Cannot use --name with multiple URLs")
				os.Exit(1)
			}
			var jobs []utils.Job
			for _, url := range args {
				job := utils.Job{
					JobType:   "audio",
					URL:       url,
					OutputDir: outputDir,
					Metadata:  make(map[string]any),
				}
				job.Metadata["quality"] = quality
				if name != "" {
					job.Metadata["name"] = name
				}
				if tagTitle != "" {
					job.Metadata["tagTitle"] = tagTitle
				}
				if tagArtist != "" {
					job.Metadata["tagArtist"] = tagArtist
				}
				if noThumbnail {
					job.Metadata["noThumbnail"] = true
				}
				if noMetadata {
					job.Metadata["noMetadata"] = true
				}
				jobs = append(jobs, job)
			}
			runJobs(jobs)
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "best", "Audio quality (best, good, worst)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Custom output basename (single URL only)")
	cmd.Flags().StringVar(&tagTitle, "title", "", "Override the ID3 title tag")
	cmd.Flags().StringVar(&tagArtist, "artist", "", "Override the ID3 artist tag")
	cmd.Flags().BoolVar(&noThumbnail, "no-thumbnail", false, "Skip embedding the thumbnail as cover art")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "Skip embedding video metadata")
	return cmd
}
