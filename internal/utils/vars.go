package utils

const (
	// TempDirName is created next to the output directory for self-installed
	// tools and intermediate files; `tubetap clean` removes it.
	TempDirName = ".tubetap-temp"

	// LogFileName is the default per-URL outcome log, relative to the
	// output directory.
	LogFileName = ".tubetap.log"

	// RegistryFileName holds the managed-files state, relative to the
	// output directory.
	RegistryFileName = ".tubetap-files.json"

	ToolUserAgent = "tubetap/1337"
)

// FragmentSuffixes are the leftovers yt-dlp can leave behind after a merge
// (partial downloads and single-stream intermediates like .f140/.f137).
var FragmentSuffixes = []string{".part", ".temp", ".ytdl"}
