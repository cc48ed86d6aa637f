package ytdlp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/tubetap/tubetap/internal/utils"
)

var versionRegex = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}`)

// EnsureYtdlp locates the yt-dlp binary: PATH first, then alongside the
// tubetap executable, then a self-install into the temp directory.
func EnsureYtdlp() (string, error) {
	path, err := exec.LookPath("yt-dlp")
	if err == nil {
		return path, nil
	}
	execDir, err := os.Executable()
	if err == nil {
		ytdlpPath := filepath.Join(filepath.Dir(execDir), "yt-dlp")
		if runtime.GOOS == "windows" {
			ytdlpPath += ".exe"
		}
		if _, err := os.Stat(ytdlpPath); err == nil {
			return ytdlpPath, nil
		}
	}
	return installYtdlp()
}

// EnsureFFmpeg locates ffmpeg; unlike yt-dlp it is never self-installed.
func EnsureFFmpeg() (string, error) {
	return ensureTool("ffmpeg")
}

func EnsureFFprobe() (string, error) {
	return ensureTool("ffprobe")
}

func ensureTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err == nil {
		return path, nil
	}
	execDir, err := os.Executable()
	if err == nil {
		toolPath := filepath.Join(filepath.Dir(execDir), name)
		if runtime.GOOS == "windows" {
			toolPath += ".exe"
		}
		if _, err := os.Stat(toolPath); err == nil {
			return toolPath, nil
		}
	}
	return "", fmt.Errorf("%s not found in PATH, please install manually", name)
}

// Version returns the installed yt-dlp version string, or "" when it cannot
// be determined.
func Version(ytdlpPath string) string {
	var out bytes.Buffer
	cmd := exec.Command(ytdlpPath, "--version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return ""
	}
	return versionRegex.FindString(out.String())
}

func installYtdlp() (string, error) {
	goos := runtime.GOOS
	goarch := runtime.GOARCH
	var filename string
	switch {
	case goos == "windows" && goarch == "amd64":
		filename = "yt-dlp.exe"
	case goos == "windows" && goarch == "arm64":
		filename = "yt-dlp_arm64.exe"
	case goos == "linux" && goarch == "amd64":
		filename = "yt-dlp_linux"
	case goos == "linux" && goarch == "arm64":
		filename = "yt-dlp_linux_aarch64"
	case goos == "darwin":
		filename = "yt-dlp_macos"
	default:
		return "", fmt.Errorf("unsupported OS/arch: %s/%s", goos, goarch)
	}

	tempDir := utils.TempDirName
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", fmt.Errorf("error creating temp directory: %v", err)
	}
	downloadURL := fmt.Sprintf("https://github.com/yt-dlp/yt-dlp/releases/latest/download/%s", filename)
	filePath := filepath.Join(tempDir, "yt-dlp")
	if goos == "windows" {
		filePath += ".exe"
	}
	if err := fetchFile(downloadURL, filePath); err != nil {
		return "", err
	}
	if goos != "windows" {
		if err := os.Chmod(filePath, 0755); err != nil {
			return "", fmt.Errorf("error setting permissions: %v", err)
		}
	}
	return filePath, nil
}

func fetchFile(url, filepath string) error {
	client := utils.NewTubetapHTTPClient(utils.HTTPClientConfig{})
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	out, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
