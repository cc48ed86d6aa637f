package video

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubetap/tubetap/internal/utils"
)

func TestValidateJob(t *testing.T) {
	d := &VideoDownloader{}
	tests := []struct {
		name    string
		url     string
		meta    map[string]any
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=abc", map[string]any{}, false},
		{"short url defaults", "https://youtu.be/abc", map[string]any{}, false},
		{"quality and format", "https://youtu.be/abc", map[string]any{"quality": "720p", "format": "mkv"}, false},
		{"not youtube", "https://vimeo.com/123", map[string]any{}, true},
		{"bad quality", "https://youtu.be/abc", map[string]any{"quality": "360p"}, true},
		{"bad format", "https://youtu.be/abc", map[string]any{"format": "avi"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &utils.Job{URL: tt.url, Metadata: tt.meta}
			err := d.ValidateJob(job)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildFormatSelector(t *testing.T) {
	tests := []struct {
		format  string
		quality string
		want    string
	}{
		{"mp4", "best", "bv*[ext=mp4]+ba[ext=m4a]/b[ext=mp4]/bv*+ba/b"},
		{"mp4", "720p", "bv*[ext=mp4][height<=720]+ba[ext=m4a]/b[ext=mp4][height<=720]/bv*[height<=720]+ba/b[height<=720]"},
		{"mkv", "best", "bv*+ba/b"},
		{"mkv", "1080p", "bv*[height<=1080]+ba/b[height<=1080]"},
		{"any", "480p", "bv*[height<=480]+ba/b[height<=480]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildFormatSelector(tt.format, tt.quality), "%s/%s", tt.format, tt.quality)
	}
}

func TestLocateOutputPrefersPrintedPath(t *testing.T) {
	d := &VideoDownloader{}
	dir := t.TempDir()
	mine := filepath.Join(dir, "mine.mp4")
	sibling := filepath.Join(dir, "sibling.mp4")
	require.NoError(t, os.WriteFile(mine, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(sibling, []byte("x"), 0644))

	job := &utils.Job{OutputDir: dir, Metadata: map[string]any{}}
	got, err := d.locateOutput(job, mine)
	require.NoError(t, err)
	assert.Equal(t, mine, got)

	job.Metadata["expectedPath"] = sibling
	got, err = d.locateOutput(job, mine)
	require.NoError(t, err)
	assert.Equal(t, sibling, got)
}
