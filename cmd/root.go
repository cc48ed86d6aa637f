package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/output"
	"github.com/tubetap/tubetap/internal/registry"
	"github.com/tubetap/tubetap/internal/scheduler"
	"github.com/tubetap/tubetap/internal/utils"
)

var (
	outputDir string
	workers   int
	debug     bool
	logFile   string
)

var TubetapVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "tubetap",
	Short:   "Tubetap downloads YouTube media through yt-dlp and FFmpeg",
	Version: TubetapVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "dir", "d", "downloads", "Output directory (created if absent)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Number of links to download in parallel")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Per-URL outcome log file (default <dir>/"+utils.LogFileName+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(newAudioCmd(), newVideoCmd(), newInfoCmd(), newPlaylistCmd(), newBatchCmd(), newFilesCmd(), newCleanCmd())
}

func outcomeLogPath() string {
	if logFile != "" {
		return logFile
	}
	return filepath.Join(outputDir, utils.LogFileName)
}

func ensureOutputDir() {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		output.PrintError(fmt.Sprintf("Error creating output directory %s", outputDir))
		os.Exit(1)
	}
}

// runJobs is the shared tail of every download command: create the output
// directory, run the scheduler, track produced files in the registry, and
// exit non-zero when anything failed.
func runJobs(jobs []utils.Job) []utils.Result {
	ensureOutputDir()
	log.Debug().Str("op", "cmd").Msgf("Starting scheduler with %d jobs", len(jobs))
	results, err := scheduler.Run(jobs, workers, outcomeLogPath())
	registerResults(results)
	if err != nil {
		output.PrintError("Encountered failed operation(s)")
		os.Exit(1)
	}
	return results
}

func registerResults(results []utils.Result) {
	reg := registry.NewManager(outputDir, registry.DefaultTTL)
	for _, result := range results {
		if result.Status != "success" || result.FilePath == "" {
			continue
		}
		if err := reg.Register(result.FilePath); err != nil {
			log.Debug().Str("op", "cmd").Err(err).Msg("Error registering downloaded file")
		}
	}
}
