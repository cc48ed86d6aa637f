package ytdlp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// VideoInfo is the subset of yt-dlp's dump-json output the tool cares
// about.
type VideoInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	Channel     string  `json:"channel"`
	Thumbnail   string  `json:"thumbnail"`
	Description string  `json:"description"`
	WebpageURL  string  `json:"webpage_url"`
}

type PlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// URL returns the canonical watch URL for a playlist entry.
func (e PlaylistEntry) URL() string {
	return WatchURL(e.ID)
}

func WatchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

// GetVideoInfo runs a metadata-only extraction for a single video.
func GetVideoInfo(ytdlpPath, url string) (*VideoInfo, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ytdlpPath, "--dump-json", "--no-warnings", "--no-playlist", url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debug().Str("op", "ytdlp/info").Msgf("Executing yt-dlp command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp info failed: %s", firstLine(stderr.String(), err))
	}
	var info VideoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("error parsing video info: %v", err)
	}
	return &info, nil
}

// GetPlaylistInfo runs a flat-playlist extraction, one JSON object per
// line, and returns the entries that carry a video ID.
func GetPlaylistInfo(ytdlpPath, url string) ([]PlaylistEntry, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ytdlpPath, "--dump-json", "--no-warnings", "--flat-playlist", url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debug().Str("op", "ytdlp/info").Msgf("Executing yt-dlp command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp playlist extraction failed: %s", firstLine(stderr.String(), err))
	}
	entries, err := ParsePlaylistDump(&stdout)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no videos found in playlist")
	}
	return entries, nil
}

// ParsePlaylistDump parses line-delimited flat-playlist JSON.
func ParsePlaylistDump(r io.Reader) ([]PlaylistEntry, error) {
	var entries []PlaylistEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry PlaylistEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("error parsing playlist entry: %v", err)
		}
		if entry.ID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// IsPlaylistURL reports whether the URL refers to a playlist rather than a
// single video.
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, "playlist") || strings.Contains(url, "list=")
}

func firstLine(stderr string, fallback error) string {
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return fallback.Error()
}
