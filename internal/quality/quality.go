// Package quality maps human quality labels to the platform's rendition
// tokens. Lookups are total: unknown labels fall back to a default token.
package quality

// Default labels used when the caller does not choose one.
const (
	DefaultVideoLabel = "720p"
	DefaultAudioLabel = "132k"
)

// Numeric rendition IDs, as reported in the "id" field of a DASH stream entry.
var (
	videoIDs = map[string]int{
		"1080p": 80,
		"720p":  64,
		"480p":  32,
		"360p":  16,
	}
	audioIDs = map[string]int{
		"64k":  30216,
		"132k": 30232,
		"192k": 30280,
	}
)

// Rendition codes, as they appear in the stream file names of episode URLs
// (".../xxxxx-1-30080.m4s").
var (
	videoCodes = map[string]string{
		"1080p": "30080",
		"720p":  "30064",
		"480p":  "30032",
		"360p":  "30016",
	}
	audioCodes = map[string]string{
		"64k":  "30216",
		"132k": "30232",
		"192k": "30280",
	}
)

// IDs resolves labels to numeric rendition IDs for by-id stream matching.
func IDs(videoLabel, audioLabel string) (video int, audio int) {
	video, ok := videoIDs[videoLabel]
	if !ok {
		video = videoIDs[DefaultVideoLabel]
	}
	audio, ok = audioIDs[audioLabel]
	if !ok {
		audio = audioIDs[DefaultAudioLabel]
	}
	return video, audio
}

// Codes resolves labels to rendition codes for by-code stream matching.
func Codes(videoLabel, audioLabel string) (video string, audio string) {
	video, ok := videoCodes[videoLabel]
	if !ok {
		video = videoCodes[DefaultVideoLabel]
	}
	audio, ok = audioCodes[audioLabel]
	if !ok {
		audio = audioCodes[DefaultAudioLabel]
	}
	return video, audio
}

// VideoLabels lists the known video labels, best first.
func VideoLabels() []string { return []string{"1080p", "720p", "480p", "360p"} }

// AudioLabels lists the known audio labels, best first.
func AudioLabels() []string { return []string{"192k", "132k", "64k"} }
