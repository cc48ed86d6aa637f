package scheduler

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tubetap/tubetap/internal/downloaders/audio"
	"github.com/tubetap/tubetap/internal/downloaders/video"
	"github.com/tubetap/tubetap/internal/output"
	"github.com/tubetap/tubetap/internal/utils"
)

// downloaderRegistry maps job types to their downloader implementations
var downloaderRegistry = map[string]utils.Downloader{
	"audio": &audio.AudioDownloader{},
	"video": &video.VideoDownloader{},
}

// Register adds or replaces a downloader for a job type.
func Register(jobType string, d utils.Downloader) {
	downloaderRegistry[jobType] = d
}

type indexedJob struct {
	index int
	job   utils.Job
}

// Run pushes the jobs through the validate/build/download pipeline with
// numWorkers parallel workers, appending one outcome line per URL to the
// log at logPath. It returns one result per job, in input order, and an
// aggregate error when any job failed.
func Run(jobs []utils.Job, numWorkers int, logPath string) ([]utils.Result, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	attemptLog, closeLog, err := newAttemptLog(logPath)
	if err != nil {
		return nil, fmt.Errorf("error opening outcome log: %v", err)
	}
	defer closeLog()

	outputMgr := output.NewManager()
	outputMgr.StartDisplay()
	defer outputMgr.StopDisplay()

	results := make([]utils.Result, len(jobs))
	jobCh := make(chan indexedJob, len(jobs))
	for i, job := range jobs {
		job.ID = uuid.New().String()
		jobCh <- indexedJob{index: i, job: job}
	}
	close(jobCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processJobs(jobCh, outputMgr, attemptLog, results)
		}()
	}
	wg.Wait()

	failures := 0
	for _, result := range results {
		if result.Status == "error" {
			failures++
		}
	}
	if failures > 0 {
		return results, fmt.Errorf("%d of %d downloads failed", failures, len(jobs))
	}
	return results, nil
}

func processJobs(jobCh <-chan indexedJob, outputMgr *output.Manager, attemptLog zerolog.Logger, results []utils.Result) {
	for ij := range jobCh {
		job := ij.job
		funcID := outputMgr.RegisterJob(job.URL)
		job.StreamFunc = func(line string) {
			outputMgr.AddStreamLine(funcID, line)
		}

		downloader, exists := downloaderRegistry[job.JobType]
		if !exists {
			err := fmt.Errorf("unknown job type: %s", job.JobType)
			results[ij.index] = fail(&job, err, outputMgr, funcID, attemptLog)
			continue
		}

		outputMgr.SetStatus(funcID, "pending")
		outputMgr.SetMessage(funcID, fmt.Sprintf("Validating %s job", job.JobType))
		if err := downloader.ValidateJob(&job); err != nil {
			results[ij.index] = fail(&job, fmt.Errorf("validation failed: %v", err), outputMgr, funcID, attemptLog)
			continue
		}

		outputMgr.SetMessage(funcID, fmt.Sprintf("Building %s job", job.JobType))
		if err := downloader.BuildJob(&job); err != nil {
			results[ij.index] = fail(&job, fmt.Errorf("build failed: %v", err), outputMgr, funcID, attemptLog)
			continue
		}

		outputMgr.SetMessage(funcID, fmt.Sprintf("Downloading %s", job.URL))
		if err := downloader.Download(&job); err != nil {
			results[ij.index] = fail(&job, fmt.Errorf("download failed: %v", err), outputMgr, funcID, attemptLog)
			continue
		}

		finalPath, _ := job.Metadata["finalPath"].(string)
		message := fmt.Sprintf("Completed %s", job.URL)
		if finalPath != "" {
			message = fmt.Sprintf("Completed %s", finalPath)
		}
		outputMgr.Complete(funcID, message)
		attemptLog.Info().Str("url", job.URL).Str("type", job.JobType).Str("file", finalPath).Str("status", "success").Msg("download completed")
		results[ij.index] = utils.Result{
			URL:      job.URL,
			JobType:  job.JobType,
			Status:   "success",
			Message:  message,
			FilePath: finalPath,
		}
	}
}

func fail(job *utils.Job, err error, outputMgr *output.Manager, funcID int, attemptLog zerolog.Logger) utils.Result {
	outputMgr.ReportError(funcID, err)
	outputMgr.SetMessage(funcID, fmt.Sprintf("Failed %s", job.URL))
	attemptLog.Error().Str("url", job.URL).Str("type", job.JobType).Str("status", "error").Err(err).Msg("download failed")
	return utils.Result{
		URL:     job.URL,
		JobType: job.JobType,
		Status:  "error",
		Message: err.Error(),
		Err:     err,
	}
}

// newAttemptLog opens the append-only per-URL outcome log. A line per
// terminal outcome, independent of the console display.
func newAttemptLog(logPath string) (zerolog.Logger, func(), error) {
	if logPath == "" {
		logPath = utils.LogFileName
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	logger := zerolog.New(file).With().Timestamp().Logger()
	closeFn := func() {
		if err := file.Close(); err != nil {
			log.Debug().Str("op", "scheduler").Err(err).Msg("Error closing outcome log")
		}
	}
	return logger, closeFn, nil
}
