package video

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tubetap/tubetap/internal/utils"
	"github.com/tubetap/tubetap/internal/ytdlp"
)

type VideoDownloader struct{}

var videoQualities = map[string]bool{
	"best":  true,
	"1080p": true,
	"720p":  true,
	"480p":  true,
}

var containerFormats = map[string]bool{
	"mp4": true,
	"mkv": true,
	"any": true,
}

func (d *VideoDownloader) ValidateJob(job *utils.Job) error {
	if !strings.Contains(job.URL, "youtube.com/watch") &&
		!strings.Contains(job.URL, "youtu.be/") &&
		!strings.Contains(job.URL, "music.youtube.com") {
		return fmt.Errorf("invalid YouTube URL")
	}
	if quality, ok := job.Metadata["quality"].(string); ok && quality != "" {
		if !videoQualities[quality] {
			return fmt.Errorf("unsupported video quality: %s", quality)
		}
	}
	if format, ok := job.Metadata["format"].(string); ok && format != "" {
		if !containerFormats[format] {
			return fmt.Errorf("unsupported container format: %s", format)
		}
	}
	return nil
}

func (d *VideoDownloader) BuildJob(job *utils.Job) error {
	quality, ok := job.Metadata["quality"].(string)
	if !ok || quality == "" {
		quality = "best"
		job.Metadata["quality"] = quality
	}
	format, ok := job.Metadata["format"].(string)
	if !ok || format == "" {
		format = "mp4"
		job.Metadata["format"] = format
	}
	job.Metadata["formatSelector"] = buildFormatSelector(format, quality)
	mergeFormat := format
	if mergeFormat == "any" {
		mergeFormat = "mp4"
	}
	job.Metadata["mergeFormat"] = mergeFormat

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
	ffprobePath, err := ytdlp.EnsureFFprobe()
	if err != nil {
		return fmt.Errorf("error ensuring ffprobe: %v", err)
	}
	job.Metadata["ffprobePath"] = ffprobePath

	if job.OutputDir == "" {
		job.OutputDir = "downloads"
	}
	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %v", err)
	}

	base := "%(title)s"
	if name, ok := job.Metadata["name"].(string); ok && name != "" {
		base = utils.SanitizeName(name)
		expected := filepath.Join(job.OutputDir, base+"."+mergeFormat)
		if _, err := os.Stat(expected); err == nil {
			expected = utils.RenewOutputPath(expected)
			base = strings.TrimSuffix(filepath.Base(expected), "."+mergeFormat)
		}
		job.Metadata["expectedPath"] = filepath.Join(job.OutputDir, base+"."+mergeFormat)
	}
	job.OutputPath = filepath.Join(job.OutputDir, base+".%(ext)s")
	return nil
}

// buildFormatSelector assembles the yt-dlp -f fallback chain for the given
// container preference and height cap.
func buildFormatSelector(format, quality string) string {
	height := strings.TrimSuffix(quality, "p")
	if format == "mp4" {
		if quality == "best" {
			return "bv*[ext=mp4]+ba[ext=m4a]/b[ext=mp4]/bv*+ba/b"
		}
		return fmt.Sprintf("bv*[ext=mp4][height<=%s]+ba[ext=m4a]/b[ext=mp4][height<=%s]/bv*[height<=%s]+ba/b[height<=%s]",
			height, height, height, height)
	}
	// mkv and "any" let yt-dlp pick the codecs freely
	if quality == "best" {
		return "bv*+ba/b"
	}
	return fmt.Sprintf("bv*[height<=%s]+ba/b[height<=%s]", height, height)
}
