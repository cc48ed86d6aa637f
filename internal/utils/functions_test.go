package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(offsetSeconds int) time.Time {
	return time.Now().Add(time.Duration(offsetSeconds) * time.Second)
}

func TestRenewOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	renewed := RenewOutputPath(path)
	assert.Equal(t, filepath.Join(dir, "video-(1).mp4"), renewed)

	require.NoError(t, os.WriteFile(renewed, []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, "video-(2).mp4"), RenewOutputPath(path))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my-favorite-song", SanitizeName("My Favorite Song!"))
	assert.Equal(t, "a-b", SanitizeName("a/../b"))
}

func TestReadLinkList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "links.txt")
	content := "https://youtu.be/abc\n\n# a comment\n  https://youtu.be/def  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	links, err := ReadLinkList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/abc", "https://youtu.be/def"}, links)

	_, err = ReadLinkList(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestIsFragmentFile(t *testing.T) {
	tests := []struct {
		name     string
		fragment bool
	}{
		{"video.mp4.part", true},
		{"video.temp", true},
		{"video.f137.mp4", true},
		{"video.f140.m4a", true},
		{"video.mp4", false},
		{"song.mp3", false},
		{"f140.notes.txt", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fragment, IsFragmentFile(tt.name), tt.name)
	}
}

func TestCleanFragments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"keep.mp4", "gone.mp4.part", "gone.f137.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	removed, err := CleanFragments(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	_, err = os.Stat(filepath.Join(dir, "keep.mp4"))
	assert.NoError(t, err)
}

func TestCleanFragmentsFor(t *testing.T) {
	dir := t.TempDir()
	// job-a finished, job-b still has in-flight intermediates
	for _, name := range []string{"job-a.mp4", "job-a.mp4.part", "job-a.f137.mp4", "job-b.mp4.part", "job-b.f137.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	removed, err := CleanFragmentsFor(dir, "job-a")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	for _, name := range []string{"job-a.mp4", "job-b.mp4.part", "job-b.f137.mp4"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	removed, err = CleanFragmentsFor(dir, "")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFinalPathLine(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
	}{
		{"downloads/Some Title.mp3", true},
		{"downloads/Some Title.mp4", false}, // wrong extension
		{"elsewhere/Some Title.mp3", false},
		{"downloads/nested/Some Title.mp3", false},
		{"downloads/Some Title.f140.m4a", false},
		{"[download] 42.0% of 3.52MiB at 1.21MiB/s", false},
		{"", false},
	}
	for _, tt := range tests {
		path, ok := FinalPathLine(tt.line, "downloads", []string{".mp3"})
		assert.Equal(t, tt.ok, ok, tt.line)
		if tt.ok {
			assert.Equal(t, tt.line, path)
		}
	}

	path, ok := FinalPathLine("downloads/Clip.mkv", "downloads/", []string{".mp4", ".mkv"})
	assert.True(t, ok)
	assert.Equal(t, "downloads/Clip.mkv", path)
}

func TestZipFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"one.mp3", "two.mp3"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))
		files = append(files, path)
	}
	zipPath := filepath.Join(dir, "bundle.zip")
	require.NoError(t, ZipFiles(zipPath, files))

	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer reader.Close()
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"one.mp3", "two.mp3"}, names)
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.mp3")
	newer := filepath.Join(dir, "newer.mp3")
	require.NoError(t, os.WriteFile(older, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(older, ts(-60), ts(-60)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skipped.f140.m4a"), []byte("x"), 0644))

	latest, err := LatestFile(dir, []string{".mp3"})
	require.NoError(t, err)
	assert.Equal(t, newer, latest)

	_, err = LatestFile(dir, []string{".mkv"})
	assert.Error(t, err)
}
