package utils

type Downloader interface {
	ValidateJob(job *Job) error
	BuildJob(job *Job) error
	Download(job *Job) error
}

// Job carries everything a downloader needs for one URL. Downloaders stash
// derived values (tool paths, format selectors, final file path) in Metadata
// between the build and download phases.
type Job struct {
	ID         string
	JobType    string
	URL        string
	OutputDir  string
	OutputPath string
	StreamFunc func(line string)
	Metadata   map[string]any
}

// Result is the terminal outcome of one job.
type Result struct {
	URL      string
	JobType  string
	Status   string // "success" or "error"
	Message  string
	FilePath string
	Err      error
}

type LinkEntry struct {
	Name string `yaml:"name,omitempty"`
	Link string `yaml:"link"`
}

type BatchFile map[string][]LinkEntry
