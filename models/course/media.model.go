package course

type MediaCategory string

const (
	MediaVideo        MediaCategory = "video"
	MediaDocument     MediaCategory = "document"
	MediaAudio        MediaCategory = "audio"
	MediaImage        MediaCategory = "image"
	MediaPresentation MediaCategory = "presentation"
	MediaH5P          MediaCategory = "h5p"
)

var mediaCategories = map[MediaCategory]bool{
	MediaVideo: true, MediaDocument: true, MediaAudio: true,
	MediaImage: true, MediaPresentation: true, MediaH5P: true,
}

func (c MediaCategory) Valid() bool {
	return mediaCategories[c]
}

// MediaLimits are the server-declared upload constraints for a category
type MediaLimits struct {
	Category      MediaCategory `json:"category"`
	MaxSizeBytes  int64         `json:"max_size_bytes"`
	AcceptedTypes []string      `json:"accepted_types"`
}

// Media is an uploaded file as stored by the backend
type Media struct {
	ID       string        `json:"id"`
	URL      string        `json:"url"`
	Category MediaCategory `json:"category"`
	MimeType string        `json:"mime_type"`
	Size     int64         `json:"size"`
}
