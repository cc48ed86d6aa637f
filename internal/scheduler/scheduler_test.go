package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubetap/tubetap/internal/utils"
)

type stubDownloader struct {
	failURL string
}

func (d *stubDownloader) ValidateJob(job *utils.Job) error {
	if !strings.HasPrefix(job.URL, "https://") {
		return errors.New("invalid URL")
	}
	return nil
}

func (d *stubDownloader) BuildJob(job *utils.Job) error {
	return nil
}

func (d *stubDownloader) Download(job *utils.Job) error {
	if job.URL == d.failURL {
		return errors.New("download blew up")
	}
	job.Metadata["finalPath"] = filepath.Join(job.OutputDir, "out.bin")
	return nil
}

func makeJobs(urls ...string) []utils.Job {
	jobs := make([]utils.Job, 0, len(urls))
	for _, url := range urls {
		jobs = append(jobs, utils.Job{
			JobType:   "stub",
			URL:       url,
			OutputDir: os.TempDir(),
			Metadata:  make(map[string]any),
		})
	}
	return jobs
}

func TestRunProducesOneResultPerJob(t *testing.T) {
	Register("stub", &stubDownloader{})
	logPath := filepath.Join(t.TempDir(), "outcomes.log")
	jobs := makeJobs("https://a", "https://b", "https://c")

	results, err := Run(jobs, 2, logPath)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, result := range results {
		assert.Equal(t, jobs[i].URL, result.URL)
		assert.Equal(t, "success", result.Status)
		assert.NotEmpty(t, result.FilePath)
	}

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, len(jobs), len(strings.Split(strings.TrimSpace(string(data)), "\n")))
}

func TestRunContinuesPastFailures(t *testing.T) {
	Register("stub", &stubDownloader{failURL: "https://b"})
	logPath := filepath.Join(t.TempDir(), "outcomes.log")
	jobs := makeJobs("https://a", "https://b", "https://c")

	results, err := Run(jobs, 1, logPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	require.Len(t, results, 3)
	assert.Equal(t, "success", results[0].Status)
	assert.Equal(t, "error", results[1].Status)
	assert.NotEmpty(t, results[1].Message)
	assert.Equal(t, "success", results[2].Status)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"error"`)
}

func TestRunValidationFailure(t *testing.T) {
	Register("stub", &stubDownloader{})
	logPath := filepath.Join(t.TempDir(), "outcomes.log")
	jobs := makeJobs("not-a-url")

	results, err := Run(jobs, 1, logPath)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "error", results[0].Status)
	assert.Contains(t, results[0].Message, "validation failed")
}

func TestRunUnknownJobType(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "outcomes.log")
	jobs := []utils.Job{{JobType: "nope", URL: "https://a", Metadata: make(map[string]any)}}

	results, err := Run(jobs, 1, logPath)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "error", results[0].Status)
	assert.Contains(t, results[0].Message, "unknown job type")
}

func TestRunAppendsAcrossRuns(t *testing.T) {
	Register("stub", &stubDownloader{})
	logPath := filepath.Join(t.TempDir(), "outcomes.log")

	_, err := Run(makeJobs("https://a"), 1, logPath)
	require.NoError(t, err)
	_, err = Run(makeJobs("https://b"), 1, logPath)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 2, len(strings.Split(strings.TrimSpace(string(data)), "\n")))
}
