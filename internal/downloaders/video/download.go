package video

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tubetap/tubetap/internal/utils"
)

var videoExtensions = []string{".mp4", ".mkv", ".webm", ".avi", ".mov"}

func (d *VideoDownloader) Download(job *utils.Job) error {
	ytdlpPath := job.Metadata["ytdlpPath"].(string)
	ffmpegPath := job.Metadata["ffmpegPath"].(string)
	formatSelector := job.Metadata["formatSelector"].(string)
	mergeFormat := job.Metadata["mergeFormat"].(string)
	args := []string{
		"--progress",
		"--newline",
		"--no-warnings",
		"-f", formatSelector,
		"--merge-output-format", mergeFormat,
		"--ffmpeg-location", ffmpegPath,
		"-o", job.OutputPath,
		"--no-playlist",
		// Report the final file path on stdout once the merge is moved
		// into place. --no-simulate keeps the download running and
		// --progress above keeps the progress lines despite the implied
		// quiet mode.
		"--print", "after_move:filepath",
		"--no-simulate",
	}
	if withSubs, _ := job.Metadata["subs"].(bool); withSubs {
		args = append(args, "--embed-subs", "--write-auto-subs")
	}
	args = append(args, "--embed-thumbnail", "--add-metadata", job.URL)
	cmd := exec.Command(ytdlpPath, args...)
	log.Debug().Str("op", "video/download").Msgf("Executing yt-dlp command: %s", cmd.String())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error creating stdout pipe: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("error creating stderr pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error starting yt-dlp: %v", err)
	}

	var printedPath string
	var streamWg sync.WaitGroup
	streamWg.Add(2)
	go func() {
		defer streamWg.Done()
		processStream(stdout, func(line string) {
			if path, ok := utils.FinalPathLine(line, job.OutputDir, videoExtensions); ok {
				printedPath = path
				return
			}
			if job.StreamFunc != nil {
				job.StreamFunc(line)
			}
		})
	}()
	go func() {
		defer streamWg.Done()
		processStream(stderr, job.StreamFunc)
	}()
	streamWg.Wait()
	if err := cmd.Wait(); err != nil {
		log.Error().Str("op", "video/download").Err(err).Msg("yt-dlp command failed")
		return fmt.Errorf("yt-dlp failed: %v", err)
	}

	finalPath, err := d.locateOutput(job, printedPath)
	if err != nil {
		return err
	}
	job.Metadata["finalPath"] = finalPath

	// Merges can leave single-stream intermediates behind. Sweep only this
	// job's own leftovers, parallel workers may still be writing theirs.
	base := strings.TrimSuffix(filepath.Base(finalPath), filepath.Ext(finalPath))
	if removed, err := utils.CleanFragmentsFor(job.OutputDir, base); err == nil && removed > 0 {
		log.Debug().Str("op", "video/download").Msgf("Removed %d leftover fragment files", removed)
	}
	log.Info().Str("op", "video/download").Msgf("yt-dlp download completed for %s", job.URL)
	return nil
}

func (d *VideoDownloader) locateOutput(job *utils.Job, printedPath string) (string, error) {
	if expected, ok := job.Metadata["expectedPath"].(string); ok && expected != "" {
		return expected, nil
	}
	if printedPath != "" {
		return printedPath, nil
	}
	return utils.LatestFile(job.OutputDir, videoExtensions)
}

func processStream(reader io.Reader, streamFunc func(string)) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && streamFunc != nil {
			streamFunc(line)
		}
	}
}
