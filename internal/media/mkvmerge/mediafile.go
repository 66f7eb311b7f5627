package mkvmerge

import (
	"fmt"

	"mkvlang/internal/services"
)

// MediaFile is the identified metadata of one container. It is built once per
// identification and never updated to reflect later edits.
type MediaFile struct {
	FileName                    string
	Container                   map[string]any
	Tracks                      []Track
	Chapters                    []any
	Errors                      []any
	Warnings                    []any
	IdentificationFormatVersion int64
	Attachments                 []any
	GlobalTags                  []any
	TrackTags                   []any
}

// ContainerType returns container.type (e.g. "Matroska") when reported.
func (m MediaFile) ContainerType() string {
	value, _ := m.Container["type"].(string)
	return value
}

// AudioTracks returns the audio tracks in tool order.
func (m MediaFile) AudioTracks() []Track {
	out := make([]Track, 0, len(m.Tracks))
	for _, track := range m.Tracks {
		if track.Type == TrackTypeAudio {
			out = append(out, track)
		}
	}
	return out
}

// ParseError reports a track entry missing a required field.
type ParseError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: track %d: field %q %s", services.ErrParse, e.Index, e.Field, e.Reason)
}

// Unwrap ties ParseError to services.ErrParse.
func (e *ParseError) Unwrap() error {
	return services.ErrParse
}

// Parse interprets an identification document. Absent optional keys yield
// empty collections; a track entry missing type, codec, id, or properties
// fails with a *ParseError.
func Parse(doc map[string]any) (MediaFile, error) {
	file := MediaFile{
		FileName:    stringValue(doc["file_name"]),
		Container:   mapValue(doc["container"]),
		Chapters:    listValue(doc["chapters"]),
		Errors:      listValue(doc["errors"]),
		Warnings:    listValue(doc["warnings"]),
		Attachments: listValue(doc["attachments"]),
		GlobalTags:  listValue(doc["global_tags"]),
		TrackTags:   listValue(doc["track_tags"]),
	}
	if version, ok := asInt(doc["identification_format_version"]); ok {
		file.IdentificationFormatVersion = version
	}

	entries := listValue(doc["tracks"])
	file.Tracks = make([]Track, 0, len(entries))
	for idx, entry := range entries {
		track, err := parseTrack(idx, entry)
		if err != nil {
			return MediaFile{}, err
		}
		file.Tracks = append(file.Tracks, track)
	}
	return file, nil
}

func parseTrack(idx int, entry any) (Track, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return Track{}, &ParseError{Index: idx, Field: "tracks", Reason: "entry is not an object"}
	}

	rawType, err := requireString(idx, fields, "type")
	if err != nil {
		return Track{}, err
	}
	codec, err := requireString(idx, fields, "codec")
	if err != nil {
		return Track{}, err
	}
	rawID, ok := fields["id"]
	if !ok {
		return Track{}, &ParseError{Index: idx, Field: "id", Reason: "is missing"}
	}
	id, ok := asInt(rawID)
	if !ok {
		return Track{}, &ParseError{Index: idx, Field: "id", Reason: "is not an integer"}
	}
	rawProps, ok := fields["properties"]
	if !ok {
		return Track{}, &ParseError{Index: idx, Field: "properties", Reason: "is missing"}
	}
	props, ok := rawProps.(map[string]any)
	if !ok {
		return Track{}, &ParseError{Index: idx, Field: "properties", Reason: "is not an object"}
	}

	track := Track{
		ID:         id,
		Codec:      codec,
		Type:       ParseTrackType(rawType),
		RawType:    rawType,
		Properties: props,
	}
	switch track.Type {
	case TrackTypeAudio:
		track.Audio = &AudioInfo{
			Channels:          optionalInt(props, PropAudioChannels),
			SamplingFrequency: optionalInt(props, PropAudioSamplingFrequency),
		}
	case TrackTypeVideo:
		track.Video = &VideoInfo{
			DisplayDimensions: stringValue(props[PropDisplayDimensions]),
			PixelDimensions:   stringValue(props[PropPixelDimensions]),
		}
	}
	return track, nil
}

func requireString(idx int, fields map[string]any, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &ParseError{Index: idx, Field: key, Reason: "is missing"}
	}
	value, ok := raw.(string)
	if !ok {
		return "", &ParseError{Index: idx, Field: key, Reason: "is not a string"}
	}
	return value, nil
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func mapValue(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

func listValue(value any) []any {
	list, ok := value.([]any)
	if !ok {
		return []any{}
	}
	return list
}
