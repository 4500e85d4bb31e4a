// Package media defines the authoritative reactive state record for a playback
// session and its supporting value types.
package media

// Type classifies the loaded media resource.
type Type int

const (
	TypeUnknown Type = iota
	TypeAudio
	TypeVideo
	TypeHLS
)

// String returns a human-readable label for the media type.
func (t Type) String() string {
	switch t {
	case TypeAudio:
		return "audio"
	case TypeVideo:
		return "video"
	case TypeHLS:
		return "hls"
	default:
		return "unknown"
	}
}

// ViewType classifies how the session presents itself, independent of the
// resource currently loaded into it.
type ViewType int

const (
	ViewUnknown ViewType = iota
	ViewAudio
	ViewVideo
)

// String returns a human-readable label for the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAudio:
		return "audio"
	case ViewVideo:
		return "video"
	default:
		return "unknown"
	}
}
