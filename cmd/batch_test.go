package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJobType(t *testing.T) {
	assert.Equal(t, "audio", normalizeJobType("mp3"))
	assert.Equal(t, "audio", normalizeJobType("Music"))
	assert.Equal(t, "video", normalizeJobType("yt"))
	assert.Equal(t, "video", normalizeJobType("VIDEO"))
	assert.Equal(t, "", normalizeJobType("torrent"))
}

func TestBuildJobsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	content := `audio:
  - link: https://youtu.be/abc
    name: my song
video:
  - link: https://youtu.be/def
  - link: ""
torrent:
  - link: https://youtu.be/nope
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	jobs, err := buildJobsFromYAML(path, "best", "mp4")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	byType := map[string]int{}
	for _, job := range jobs {
		byType[job.JobType]++
	}
	assert.Equal(t, 1, byType["audio"])
	assert.Equal(t, 1, byType["video"])
	for _, job := range jobs {
		if job.JobType == "audio" {
			assert.Equal(t, "my song", job.Metadata["name"])
			assert.Nil(t, job.Metadata["format"])
		} else {
			assert.Equal(t, "mp4", job.Metadata["format"])
		}
		assert.Equal(t, "best", job.Metadata["quality"])
	}
}

func TestBuildJobsFromLinkList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "links.txt")
	content := "https://youtu.be/abc\n# skip me\nhttps://youtu.be/def\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	jobs, err := buildJobsFromLinkList(path, "video", "1080p", "mkv")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "video", jobs[0].JobType)
	assert.Equal(t, "1080p", jobs[0].Metadata["quality"])
	assert.Equal(t, "mkv", jobs[0].Metadata["format"])

	_, err = buildJobsFromLinkList(path, "torrent", "best", "mp4")
	assert.Error(t, err)
}
