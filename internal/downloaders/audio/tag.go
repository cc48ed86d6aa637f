package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
)

// applyTagOverrides rewrites the ID3 title/artist frames on a downloaded
// mp3. Empty values leave the frame yt-dlp wrote untouched.
func applyTagOverrides(path, title, artist string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("error opening tag: %v", err)
	}
	defer tag.Close()
	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	return tag.Save()
}
