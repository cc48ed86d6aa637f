package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tubetap/tubetap/internal/utils"
)

const DefaultTTL = 20 * time.Minute

type entry struct {
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// FileInfo describes one managed download for listing purposes.
type FileInfo struct {
	Name      string
	Path      string
	Size      int64
	CreatedAt time.Time
	ExpiresAt time.Time
	TimeLeft  string
}

// Manager tracks downloaded files in a JSON state file and removes them
// once they outlive the TTL. A corrupt or missing state file starts empty.
type Manager struct {
	mu      sync.Mutex
	path    string
	ttl     time.Duration
	entries map[string]entry
	log     zerolog.Logger
}

func NewManager(outputDir string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		path:    filepath.Join(outputDir, utils.RegistryFileName),
		ttl:     ttl,
		entries: make(map[string]entry),
		log:     utils.GetLogger("registry"),
	}
	m.load()
	return m
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &m.entries); err != nil {
		m.log.Debug().Err(err).Msg("Ignoring corrupt registry state")
		m.entries = make(map[string]entry)
	}
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0644)
}

// Register starts tracking a downloaded file. Missing files are ignored.
func (m *Manager) Register(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error registering %s: %v", path, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[path] = entry{
		CreatedAt: time.Now(),
		Size:      info.Size(),
	}
	return m.save()
}

// Available returns unexpired files, newest first, after removing expired
// ones from disk.
func (m *Manager) Available() ([]FileInfo, error) {
	if _, err := m.CleanupExpired(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var files []FileInfo
	for path, e := range m.entries {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		expiresAt := e.CreatedAt.Add(m.ttl)
		left := expiresAt.Sub(now)
		if left <= 0 {
			continue
		}
		files = append(files, FileInfo{
			Name:      filepath.Base(path),
			Path:      path,
			Size:      e.Size,
			CreatedAt: e.CreatedAt,
			ExpiresAt: expiresAt,
			TimeLeft:  formatTimeLeft(left),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

// CleanupExpired deletes files older than the TTL and returns how many
// were removed.
func (m *Manager) CleanupExpired() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	cleaned := 0
	changed := false
	for path, e := range m.entries {
		if now.Sub(e.CreatedAt) <= m.ttl {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				m.log.Debug().Err(err).Msgf("Error removing expired file %s", path)
			} else {
				cleaned++
			}
		}
		delete(m.entries, path)
		changed = true
	}
	if changed {
		if err := m.save(); err != nil {
			return cleaned, err
		}
	}
	return cleaned, nil
}

// TotalFiles counts tracked files still present on disk.
func (m *Manager) TotalFiles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for path := range m.entries {
		if _, err := os.Stat(path); err == nil {
			count++
		}
	}
	return count
}

// TotalSize sums tracked file sizes in bytes.
func (m *Manager) TotalSize() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for path, e := range m.entries {
		if _, err := os.Stat(path); err == nil {
			total += e.Size
		}
	}
	return total
}

func formatTimeLeft(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds <= 0 {
		return "Expired"
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
