package utils

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

var streamFragmentRegex = regexp.MustCompile(`\.f\d+\.[a-z0-9]+$`)

// RenewOutputPath returns a non-colliding variant of outputPath by
// appending -(N) before the extension.
func RenewOutputPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	index := 1
	for {
		outputPath = filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return outputPath
		}
		index++
	}
}

// SanitizeName turns a user-provided basename into a filesystem-safe slug.
func SanitizeName(name string) string {
	return slug.Make(name)
}

// ReadLinkList reads a newline-delimited URL list, skipping blank lines and
// '#' comments.
func ReadLinkList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var links []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// IsFragmentFile reports whether name looks like a yt-dlp leftover: a
// partial download or a single-stream intermediate (eg. video.f137.mp4).
func IsFragmentFile(name string) bool {
	for _, suffix := range FragmentSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return streamFragmentRegex.MatchString(name)
}

// CleanFragments removes yt-dlp leftovers from dir and returns how many
// files were deleted.
func CleanFragments(dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, file := range files {
		if file.IsDir() || !IsFragmentFile(file.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// CleanFragmentsFor removes yt-dlp leftovers in dir that belong to a single
// download, identified by its final file's name without extension. Other
// jobs' in-flight intermediates in the same directory are left alone.
func CleanFragmentsFor(dir, base string) (int, error) {
	if base == "" {
		return 0, nil
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, file := range files {
		if file.IsDir() || !IsFragmentFile(file.Name()) {
			continue
		}
		if !strings.HasPrefix(file.Name(), base) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, file.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// FinalPathLine reports whether a yt-dlp stdout line is the final file path
// printed by --print after_move:filepath for a download into dir.
func FinalPathLine(line, dir string, extensions []string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || IsFragmentFile(line) {
		return "", false
	}
	matched := false
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(line), ext) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	if filepath.Dir(line) != filepath.Clean(dir) {
		return "", false
	}
	return line, true
}

// CleanTemp removes the tool temp directory next to dir, if present.
func CleanTemp(dir string) error {
	tempDir := filepath.Join(dir, TempDirName)
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(tempDir)
}

// ZipFiles bundles the given files (flattened to their basenames) into a
// zip archive at zipPath.
func ZipFiles(zipPath string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("error creating archive: %v", err)
	}
	defer out.Close()
	writer := zip.NewWriter(out)
	defer writer.Close()
	for _, file := range files {
		if err := addFileToZip(writer, file); err != nil {
			return err
		}
	}
	return nil
}

func addFileToZip(writer *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %v", path, err)
	}
	defer in.Close()
	entry, err := writer.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, in)
	return err
}

// LatestFile returns the most recently modified file in dir whose name ends
// with one of the given extensions, ignoring fragment leftovers.
func LatestFile(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var latest string
	var latestMod int64
	for _, file := range files {
		if file.IsDir() || IsFragmentFile(file.Name()) {
			continue
		}
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(file.Name()), ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().UnixNano() >= latestMod {
			latestMod = info.ModTime().UnixNano()
			latest = filepath.Join(dir, file.Name())
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no downloaded file found in %s", dir)
	}
	return latest, nil
}
