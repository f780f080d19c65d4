package domain

import (
	"path/filepath"
	"strings"
)

// RoomDraft holds the create-room form inputs exactly as typed.
type RoomDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Ready reports whether both fields carry something other than whitespace.
func (d RoomDraft) Ready() bool {
	return strings.TrimSpace(d.Name) != "" && strings.TrimSpace(d.Description) != ""
}

// QuestionDraft holds the question input exactly as typed.
type QuestionDraft struct {
	Content string `json:"content"`
}

func (d QuestionDraft) Ready() bool {
	return strings.TrimSpace(d.Content) != ""
}

// AudioExtensions lists the formats advertised by the upload picker. The
// restriction is only a hint for the browser; uploads are not filtered client side.
var AudioExtensions = []string{".webm", ".wav", ".mp3"}

// AudioAccept renders the value of the file input accept attribute.
func AudioAccept() string {
	return strings.Join(AudioExtensions, ",")
}

// AdvertisedAudio reports whether the filename carries one of the advertised extensions.
func AdvertisedAudio(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, candidate := range AudioExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
