package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubetap/tubetap/internal/scheduler"
	"github.com/tubetap/tubetap/internal/utils"
)

type zipStubDownloader struct {
	fail bool
}

func (d *zipStubDownloader) ValidateJob(job *utils.Job) error { return nil }
func (d *zipStubDownloader) BuildJob(job *utils.Job) error    { return nil }

func (d *zipStubDownloader) Download(job *utils.Job) error {
	if d.fail {
		return errors.New("download blew up")
	}
	path := filepath.Join(job.OutputDir, "track.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		return err
	}
	job.Metadata["finalPath"] = path
	return nil
}

func setPlaylistGlobals(t *testing.T) string {
	t.Helper()
	prevDir, prevLog, prevWorkers := outputDir, logFile, workers
	t.Cleanup(func() {
		outputDir, logFile, workers = prevDir, prevLog, prevWorkers
	})
	outputDir = t.TempDir()
	logFile = filepath.Join(outputDir, "outcomes.log")
	workers = 1
	return outputDir
}

func makeZipJob(scratchDir string) utils.Job {
	return utils.Job{
		JobType:   "zip-stub",
		URL:       "https://www.youtube.com/watch?v=abc",
		OutputDir: scratchDir,
		Metadata:  make(map[string]any),
	}
}

func TestRunZipBundleCreatesArchive(t *testing.T) {
	scheduler.Register("zip-stub", &zipStubDownloader{})
	dir := setPlaylistGlobals(t)
	scratch := filepath.Join(dir, utils.TempDirName, "playlist_test")
	require.NoError(t, os.MkdirAll(scratch, 0755))

	require.NoError(t, runZipBundle([]utils.Job{makeZipJob(scratch)}, scratch))

	_, err := os.Stat(scratch)
	assert.True(t, os.IsNotExist(err), "scratch dir should be removed")
	zips, err := filepath.Glob(filepath.Join(dir, "playlist_*.zip"))
	require.NoError(t, err)
	assert.Len(t, zips, 1)
}

func TestRunZipBundleRemovesScratchDirOnFailure(t *testing.T) {
	scheduler.Register("zip-stub", &zipStubDownloader{fail: true})
	dir := setPlaylistGlobals(t)
	scratch := filepath.Join(dir, utils.TempDirName, "playlist_test")
	require.NoError(t, os.MkdirAll(scratch, 0755))

	err := runZipBundle([]utils.Job{makeZipJob(scratch)}, scratch)
	require.Error(t, err)

	_, statErr := os.Stat(scratch)
	assert.True(t, os.IsNotExist(statErr), "scratch dir should be removed on failure")
	zips, globErr := filepath.Glob(filepath.Join(dir, "playlist_*.zip"))
	require.NoError(t, globErr)
	assert.Empty(t, zips)
}
