package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/output"
	"github.com/tubetap/tubetap/internal/registry"
	"github.com/tubetap/tubetap/internal/scheduler"
	"github.com/tubetap/tubetap/internal/utils"
	"github.com/tubetap/tubetap/internal/ytdlp"
)

func newPlaylistCmd() *cobra.Command {
	var downloadType string
	var quality string
	var format string
	var zipBundle bool

	cmd := &cobra.Command{
		Use:   "playlist [URL] [--type TYPE] [--zip]",
		Short: "Download every video of a playlist",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			url := args[0]
			if downloadType != "audio" && downloadType != "video" {
				output.PrintError(fmt.Sprintf("Unknown download type: %s", downloadType))
				os.Exit(1)
			}
			if !ytdlp.IsPlaylistURL(url) {
				output.PrintError("Not a playlist URL, use the audio or video command instead")
				os.Exit(1)
			}
			ensureOutputDir()
			ytdlpPath, err := ytdlp.EnsureYtdlp()
			if err != nil {
				output.PrintError(fmt.Sprintf("Error ensuring yt-dlp: %v", err))
				os.Exit(1)
			}
			entries, err := ytdlp.GetPlaylistInfo(ytdlpPath, url)
			if err != nil {
				output.PrintError(fmt.Sprintf("Error expanding playlist: %v", err))
				os.Exit(1)
			}
			output.PrintInfo(fmt.Sprintf("Found %d videos in playlist", len(entries)))

			// Zipped playlists download into a scratch dir that is bundled
			// and removed afterwards; otherwise files land in the output
			// directory like any other download.
			jobDir := outputDir
			if zipBundle {
				jobDir = filepath.Join(outputDir, utils.TempDirName, "playlist_"+uuid.New().String()[:8])
				if err := os.MkdirAll(jobDir, 0755); err != nil {
					output.PrintError("Error creating playlist scratch directory")
					os.Exit(1)
				}
			}

			var jobs []utils.Job
			for _, entry := range entries {
				job := utils.Job{
					JobType:   downloadType,
					URL:       entry.URL(),
					OutputDir: jobDir,
					Metadata:  make(map[string]any),
				}
				job.Metadata["quality"] = quality
				if downloadType == "video" {
					job.Metadata["format"] = format
				}
				jobs = append(jobs, job)
			}
			if zipBundle {
				if err := runZipBundle(jobs, jobDir); err != nil {
					output.PrintError(fmt.Sprintf("Playlist download failed: %v", err))
					os.Exit(1)
				}
				return
			}
			results, runErr := scheduler.Run(jobs, workers, outcomeLogPath())
			registerResults(results)
			if runErr != nil {
				output.PrintError("Encountered failed operation(s)")
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&downloadType, "type", "t", "audio", "Download type (audio, video)")
	cmd.Flags().StringVarP(&quality, "quality", "q", "best", "Quality for all downloads")
	cmd.Flags().StringVarP(&format, "format", "f", "mp4", "Container format for video downloads")
	cmd.Flags().BoolVar(&zipBundle, "zip", false, "Bundle all downloads into a single zip archive")
	return cmd
}

// runZipBundle downloads the jobs into scratchDir and bundles the successes
// into a zip in the output directory. The scratch dir is removed on every
// path, including failures.
func runZipBundle(jobs []utils.Job, scratchDir string) error {
	defer os.RemoveAll(scratchDir)
	results, runErr := scheduler.Run(jobs, workers, outcomeLogPath())
	if zipErr := bundleResults(results); zipErr != nil {
		return fmt.Errorf("error creating playlist archive: %v", zipErr)
	}
	return runErr
}

func bundleResults(results []utils.Result) error {
	var files []string
	for _, result := range results {
		if result.Status == "success" && result.FilePath != "" {
			files = append(files, result.FilePath)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no videos downloaded successfully")
	}
	zipPath := filepath.Join(outputDir, fmt.Sprintf("playlist_%s.zip", time.Now().Format("20060102_150405")))
	if err := utils.ZipFiles(zipPath, files); err != nil {
		return err
	}
	reg := registry.NewManager(outputDir, registry.DefaultTTL)
	if err := reg.Register(zipPath); err != nil {
		return err
	}
	output.PrintSuccess(fmt.Sprintf("Created %s with %d of %d files", zipPath, len(files), len(results)))
	return nil
}
