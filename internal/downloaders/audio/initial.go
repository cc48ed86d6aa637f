package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tubetap/tubetap/internal/utils"
	"github.com/tubetap/tubetap/internal/ytdlp"
)

type AudioDownloader struct{}

// Maps user-facing quality names to yt-dlp's VBR scale (0 best, 9 worst).
var audioQualities = map[string]string{
	"best":  "0",
	"good":  "5",
	"worst": "9",
}

func (d *AudioDownloader) ValidateJob(job *utils.Job) error {
	if !strings.Contains(job.URL, "youtube.com/watch") &&
		!strings.Contains(job.URL, "youtu.be/") &&
		!strings.Contains(job.URL, "music.youtube.com") {
		return fmt.Errorf("invalid YouTube URL")
	}
	if quality, ok := job.Metadata["quality"].(string); ok && quality != "" {
		if _, exists := audioQualities[quality]; !exists {
			return fmt.Errorf("unsupported audio quality: %s", quality)
		}
	}
	return nil
}

func (d *AudioDownloader) BuildJob(job *utils.Job) error {
	quality, ok := job.Metadata["quality"].(string)
	if !ok || quality == "" {
		quality = "best"
		job.Metadata["quality"] = quality
	}
	job.Metadata["audioQuality"] = audioQualities[quality]

	ytdlpPath, err := ytdlp.EnsureYtdlp()
	if err != nil {
		return fmt.Errorf("error ensuring yt-dlp: %v", err)
	}
	job.Metadata["ytdlpPath"] = ytdlpPath
	ffmpegPath, err := ytdlp.EnsureFFmpeg()
	if err != nil {
		return fmt.Errorf("error ensuring ffmpeg: %v", err)
	}
	job.Metadata["ffmpegPath"] = ffmpegPath

	if job.OutputDir == "" {
		job.OutputDir = "downloads"
	}
	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %v", err)
	}

	base := "%(title)s"
	if name, ok := job.Metadata["name"].(string); ok && name != "" {
		base = utils.SanitizeName(name)
		expected := filepath.Join(job.OutputDir, base+".mp3")
		if _, err := os.Stat(expected); err == nil {
			expected = utils.RenewOutputPath(expected)
			base = strings.TrimSuffix(filepath.Base(expected), ".mp3")
		}
		job.Metadata["expectedPath"] = filepath.Join(job.OutputDir, base+".mp3")
	}
	job.OutputPath = filepath.Join(job.OutputDir, base+".%(ext)s")
	return nil
}
