package audio

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tubetap/tubetap/internal/utils"
)

func (d *AudioDownloader) Download(job *utils.Job) error {
	ytdlpPath := job.Metadata["ytdlpPath"].(string)
	ffmpegPath := job.Metadata["ffmpegPath"].(string)
	audioQuality := job.Metadata["audioQuality"].(string)
	args := []string{
		"--progress",
		"--newline",
		"--no-warnings",
		"-x", // Extract audio
		"--audio-format", "mp3",
		"--audio-quality", audioQuality,
		"--ffmpeg-location", ffmpegPath,
		"-o", job.OutputPath,
		"--no-playlist",
		// Report the final file path on stdout once the download is moved
		// into place. --no-simulate keeps the download running and
		// --progress above keeps the progress lines despite the implied
		// quiet mode.
		"--print", "after_move:filepath",
		"--no-simulate",
	}
	if noThumb, _ := job.Metadata["noThumbnail"].(bool); !noThumb {
		args = append(args, "--embed-thumbnail")
	}
	if noMeta, _ := job.Metadata["noMetadata"].(bool); !noMeta {
		args = append(args, "--add-metadata")
	}
	args = append(args, job.URL)
	cmd := exec.Command(ytdlpPath, args...)
	log.Debug().Str("op", "audio/download").Msgf("Executing yt-dlp command: %s", cmd.String())

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
			if path, ok := utils.FinalPathLine(line, job.OutputDir, []string{".mp3"}); ok {
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
		log.Error().Str("op", "audio/download").Err(err).Msg("yt-dlp command failed")
		return fmt.Errorf("yt-dlp failed: %v", err)
	}

	finalPath, err := d.locateOutput(job, printedPath)
	if err != nil {
		return err
	}
	job.Metadata["finalPath"] = finalPath

	title, _ := job.Metadata["tagTitle"].(string)
	artist, _ := job.Metadata["tagArtist"].(string)
	if title != "" || artist != "" {
		if job.StreamFunc != nil {
			job.StreamFunc("Applying tag overrides...")
		}
		if err := applyTagOverrides(finalPath, title, artist); err != nil {
			// Tagging is cosmetic, the file itself is fine
			if job.StreamFunc != nil {
				job.StreamFunc(fmt.Sprintf("Warning: failed to apply tags: %v", err))
			}
		}
	}
	log.Info().Str("op", "audio/download").Msgf("yt-dlp download completed for %s", job.URL)
	return nil
}

// locateOutput resolves the produced file: the expected path for custom
// names, then the path yt-dlp itself printed, then the newest mp3 in the
// output directory as a last resort.
func (d *AudioDownloader) locateOutput(job *utils.Job, printedPath string) (string, error) {
	if expected, ok := job.Metadata["expectedPath"].(string); ok && expected != "" {
		return expected, nil
	}
	if printedPath != "" {
		return printedPath, nil
	}
	return utils.LatestFile(job.OutputDir, []string{".mp3"})
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
