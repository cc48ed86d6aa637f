package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type JobOutput struct {
	ID          int
	URL         string
	Status      string
	Message     string
	StreamLines []string
	Complete    bool
	StartTime   time.Time
	LastUpdated time.Time
	Error       error
	Index       int
}

type ErrorReport struct {
	URL   string
	Error error
	Time  time.Time
}

// Manager renders a live view of all registered jobs: status line plus
// trailing yt-dlp stream output per job, then a summary with errors.
type Manager struct {
	outputs     map[int]*JobOutput
	mutex       sync.RWMutex
	numLines    int
	maxStreams  int // Max output stream lines per job
	errors      []ErrorReport
	doneCh      chan struct{}
	displayTick time.Duration
	jobCount    int
	displayWg   sync.WaitGroup
}

func NewManager() *Manager {
	return &Manager{
		outputs:     make(map[int]*JobOutput),
		errors:      []ErrorReport{},
		maxStreams:  10,
		doneCh:      make(chan struct{}),
		displayTick: 300 * time.Millisecond,
	}
}

func (m *Manager) RegisterJob(url string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.jobCount++
	m.outputs[m.jobCount] = &JobOutput{
		ID:          m.jobCount,
		URL:         url,
		Status:      "pending",
		StreamLines: []string{},
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
		Index:       m.jobCount,
	}
	return m.jobCount
}

func (m *Manager) SetMessage(id int, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Message = message
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) SetStatus(id int, status string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Status = status
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) Complete(id int, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.StreamLines = []string{}
		if message == "" {
			info.Message = fmt.Sprintf("Completed %s", info.URL)
		} else {
			info.Message = message
		}
		info.Complete = true
		info.Status = "success"
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) ReportError(id int, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		info.Complete = true
		info.Status = "error"
		info.Error = err
		info.LastUpdated = time.Now()
		m.errors = append(m.errors, ErrorReport{
			URL:   info.URL,
			Error: err,
			Time:  time.Now(),
		})
	}
}

func (m *Manager) AddStreamLine(id int, line string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info, exists := m.outputs[id]; exists {
		wrappedLines := wrapText(line, 2+4)
		info.StreamLines = append(info.StreamLines, wrappedLines...)
		if len(info.StreamLines) > m.maxStreams {
			info.StreamLines = info.StreamLines[len(info.StreamLines)-m.maxStreams:]
		}
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) ClearAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id := range m.outputs {
		m.outputs[id].StreamLines = []string{}
	}
}

func (m *Manager) statusIndicator(status string) string {
	switch status {
	case "success", "pass":
		return successStyle.Render(StyleSymbols["pass"])
	case "error", "fail":
		return errorStyle.Render(StyleSymbols["fail"])
	case "warning":
		return warningStyle.Render(StyleSymbols["warning"])
	case "pending":
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func styleMessage(status, message string) string {
	switch status {
	case "success":
		return successStyle.Render(message)
	case "error":
		return errorStyle.Render(message)
	case "warning":
		return warningStyle.Render(message)
	default:
		return pendingStyle.Render(message)
	}
}

func (m *Manager) sortJobs() (active, pending, completed []*JobOutput) {
	var allJobs []*JobOutput
	for _, info := range m.outputs {
		allJobs = append(allJobs, info)
	}
	// Registration order
	sort.Slice(allJobs, func(i, j int) bool {
		return allJobs[i].Index < allJobs[j].Index
	})
	for _, j := range allJobs {
		if j.Complete {
			completed = append(completed, j)
		} else if j.Status == "pending" && j.Message == "" {
			pending = append(pending, j)
		} else {
			active = append(active, j)
		}
	}
	return active, pending, completed
}

func (m *Manager) updateDisplay() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	availableLines := getTerminalHeight() - 3 // Leave some buffer for prompt
	if m.numLines > 0 {
		fmt.Printf("\033[%dA\033[J", m.numLines)
	}

	lineCount := 0
	activeJobs, pendingJobs, completedJobs := m.sortJobs()

	// Trim completed jobs first when the terminal is too short
	totalNeeded := len(completedJobs)
	for _, j := range activeJobs {
		totalNeeded += 1 + len(j.StreamLines)
	}
	totalNeeded += len(pendingJobs)
	if totalNeeded > availableLines {
		maxCompleted := max(availableLines-(totalNeeded-len(completedJobs)), 0)
		if len(completedJobs) > maxCompleted {
			completedJobs = completedJobs[len(completedJobs)-maxCompleted:]
		}
	}

	indent := strings.Repeat(" ", 2+4)
	for _, info := range activeJobs {
		if lineCount >= availableLines {
			break
		}
		elapsed := time.Since(info.StartTime).Round(time.Second)
		fmt.Printf("%s%s %s %s\n", strings.Repeat(" ", 2), m.statusIndicator(info.Status), debugStyle.Render(elapsed.String()), styleMessage(info.Status, info.Message))
		lineCount++
		for _, line := range info.StreamLines {
			if lineCount >= availableLines {
				break
			}
			fmt.Printf("%s%s\n", indent, streamStyle.Render(line))
			lineCount++
		}
	}

	for _, info := range pendingJobs {
		if lineCount >= availableLines {
			break
		}
		fmt.Printf("%s%s %s\n", strings.Repeat(" ", 2), m.statusIndicator(info.Status), pendingStyle.Render("Waiting..."))
		lineCount++
	}

	if len(completedJobs) > 10 && lineCount < availableLines {
		PrintInfo(fmt.Sprintf("%s%d links completed with varying hidden status ...", strings.Repeat(" ", 2), len(completedJobs)-8))
		completedJobs = completedJobs[len(completedJobs)-8:]
		lineCount++
	}
	for _, info := range completedJobs {
		if lineCount >= availableLines {
			break
		}
		totalTime := info.LastUpdated.Sub(info.StartTime).Round(time.Second)
		fmt.Printf("%s%s %s %s\n", strings.Repeat(" ", 2), m.statusIndicator(info.Status), debugStyle.Render(totalTime.String()), styleMessage(info.Status, info.Message))
		lineCount++
	}
	m.numLines = lineCount
}

func (m *Manager) StartDisplay() {
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.ClearAll()
				m.updateDisplay()
				m.ShowSummary()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	close(m.doneCh)
	m.displayWg.Wait()
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(strings.Repeat(" ", 2) + errorStyle.Bold(true).Render("Errors:"))
	for i, err := range m.errors {
		fmt.Printf("%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", err.Time.Format("15:04:05"))),
			errorStyle.Render(err.URL))
		fmt.Printf("%s%s\n", strings.Repeat(" ", 2+4), errorStyle.Render(fmt.Sprintf("Error: %v", err.Error)))
	}
}

func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	fmt.Println()
	var success, failures int
	for _, info := range m.outputs {
		if info.Status == "success" {
			success++
		} else if info.Status == "error" {
			failures++
		}
	}
	fmt.Println(strings.Repeat(" ", 2) + success2Style.Render(fmt.Sprintf("Completed %d of %d", success, len(m.outputs))))
	if failures > 0 {
		fmt.Println(strings.Repeat(" ", 2) + errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, len(m.outputs))))
	}
	m.displayErrors()
	fmt.Println()
}
