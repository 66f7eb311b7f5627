package mkvmerge

import (
	"encoding/json"
	"math"
	"strings"
)

// TrackType classifies a track. Unrecognized type strings map to TrackTypeOther.
type TrackType int

const (
	TrackTypeVideo TrackType = iota
	TrackTypeAudio
	TrackTypeSub
	TrackTypeOther
)

// ParseTrackType maps a tool type string onto the closed TrackType set,
// ignoring letter case.
func ParseTrackType(value string) TrackType {
	switch strings.ToLower(value) {
	case "audio":
		return TrackTypeAudio
	case "video":
		return TrackTypeVideo
	case "sub":
		return TrackTypeSub
	default:
		return TrackTypeOther
	}
}

func (t TrackType) String() string {
	switch t {
	case TrackTypeVideo:
		return "VIDEO"
	case TrackTypeAudio:
		return "AUDIO"
	case TrackTypeSub:
		return "SUB"
	default:
		return "OTHER"
	}
}

// Property keys read by the typed accessors.
const (
	PropDefaultTrack           = "default_track"
	PropForcedTrack            = "forced_track"
	PropLanguage               = "language"
	PropLanguageIETF           = "language_ietf"
	PropTrackName              = "track_name"
	PropNumber                 = "number"
	PropAudioChannels          = "audio_channels"
	PropAudioSamplingFrequency = "audio_sampling_frequency"
	PropDisplayDimensions      = "display_dimensions"
	PropPixelDimensions        = "pixel_dimensions"
)

// Track is one stream within a container. Audio and Video are set only for the
// matching TrackType; other tracks carry the shared payload alone.
type Track struct {
	ID         int64
	Codec      string
	Type       TrackType
	RawType    string
	Properties map[string]any

	Audio *AudioInfo
	Video *VideoInfo
}

// AudioInfo is the audio-specific payload. Nil fields were absent or not numeric.
type AudioInfo struct {
	Channels          *int64
	SamplingFrequency *int64
}

// VideoInfo is the video-specific payload. Dimensions are opaque "WxH" strings.
type VideoInfo struct {
	DisplayDimensions string
	PixelDimensions   string
}

// IsDefault reports the default_track property, false when absent or not a bool.
func (t Track) IsDefault() bool {
	value, _ := t.BoolProp(PropDefaultTrack)
	return value
}

// IsForced reports the forced_track property, false when absent or not a bool.
func (t Track) IsForced() bool {
	value, _ := t.BoolProp(PropForcedTrack)
	return value
}

// Language returns the language property.
func (t Track) Language() (string, bool) {
	return t.StringProp(PropLanguage)
}

// IETFLanguage returns the language_ietf property.
func (t Track) IETFLanguage() (string, bool) {
	return t.StringProp(PropLanguageIETF)
}

// Name returns the track_name property or "".
func (t Track) Name() string {
	name, _ := t.StringProp(PropTrackName)
	return name
}

// Number returns the Matroska track number reported in properties.
func (t Track) Number() (int64, bool) {
	return t.IntProp(PropNumber)
}

// BoolProp looks up a boolean property.
func (t Track) BoolProp(key string) (bool, bool) {
	value, ok := t.Properties[key].(bool)
	return value, ok
}

// StringProp looks up a string property.
func (t Track) StringProp(key string) (string, bool) {
	value, ok := t.Properties[key].(string)
	return value, ok
}

// IntProp looks up an integral numeric property.
func (t Track) IntProp(key string) (int64, bool) {
	value, ok := t.Properties[key]
	if !ok {
		return 0, false
	}
	return asInt(value)
}

func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(v)
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func optionalInt(props map[string]any, key string) *int64 {
	value, ok := props[key]
	if !ok {
		return nil
	}
	n, ok := asInt(value)
	if !ok {
		return nil
	}
	return &n
}
