package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/tubetap/tubetap/internal/utils"
)

func newBatchCmd() *cobra.Command {
	var downloadType string
	var quality string
	var format string

	cmd := &cobra.Command{
		Use:   "batch [FILE] [OPTIONS]",
		Short: "Process multiple downloads from a link list or YAML file",
		Long: `Process multiple downloads from a file. YAML files group entries under
audio:/video: sections; any other file is treated as a newline-delimited
link list downloaded as --type. Failed links are logged and skipped.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			batchFile := args[0]
			var jobs []utils.Job
			var err error
			switch strings.ToLower(filepath.Ext(batchFile)) {
			case ".yaml", ".yml":
				jobs, err = buildJobsFromYAML(batchFile, quality, format)
			default:
				jobs, err = buildJobsFromLinkList(batchFile, downloadType, quality, format)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading batch file: %v\n", err)
				os.Exit(1)
			}
			if len(jobs) == 0 {
				fmt.Fprintf(os.Stderr, "No valid jobs found in the batch file\n")
				os.Exit(1)
			}
			// Each batch run starts a fresh outcome log
			ensureOutputDir()
			if file, err := os.Create(outcomeLogPath()); err == nil {
				file.Close()
			}
			runJobs(jobs)
		},
	}

	cmd.Flags().StringVarP(&downloadType, "type", "t", "video", "Download type for plain link lists (audio, video)")
	cmd.Flags().StringVarP(&quality, "quality", "q", "best", "Quality for all downloads")
	cmd.Flags().StringVarP(&format, "format", "f", "mp4", "Container format for video downloads")
	return cmd
}

func buildJobsFromYAML(path, quality, format string) ([]utils.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batchFile utils.BatchFile
	if err := yaml.Unmarshal(data, &batchFile); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}
	var jobs []utils.Job
	for jobType, entries := range batchFile {
		normalizedType := normalizeJobType(jobType)
		if normalizedType == "" {
			fmt.Fprintf(os.Stderr, "Warning: Unknown job type '%s', skipping...\n", jobType)
			continue
		}
		for _, entry := range entries {
			if entry.Link == "" {
				fmt.Fprintf(os.Stderr, "Warning: Empty link found in %s section, skipping...\n", jobType)
				continue
			}
			jobs = append(jobs, makeBatchJob(normalizedType, entry.Link, entry.Name, quality, format))
		}
	}
	return jobs, nil
}

func buildJobsFromLinkList(path, downloadType, quality, format string) ([]utils.Job, error) {
	normalizedType := normalizeJobType(downloadType)
	if normalizedType == "" {
		return nil, fmt.Errorf("unknown download type: %s", downloadType)
	}
	links, err := utils.ReadLinkList(path)
	if err != nil {
		return nil, err
	}
	var jobs []utils.Job
	for _, link := range links {
		jobs = append(jobs, makeBatchJob(normalizedType, link, "", quality, format))
	}
	return jobs, nil
}

func makeBatchJob(jobType, url, name, quality, format string) utils.Job {
	job := utils.Job{
		JobType:   jobType,
		URL:       url,
		OutputDir: outputDir,
		Metadata:  make(map[string]any),
	}
	job.Metadata["quality"] = quality
	if jobType == "video" {
		job.Metadata["format"] = format
	}
	if name != "" {
		job.Metadata["name"] = name
	}
	return job
}

func normalizeJobType(jobType string) string {
	typeMap := map[string]string{
		"audio": "audio",
		"mp3":   "audio",
		"music": "audio",
		"video": "video",
		"mp4":   "video",
		"yt":    "video",
	}
	return typeMap[strings.ToLower(jobType)]
}
