package util

import (
	"encoding/json"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo carries the probed metadata of an uploaded lesson video.
type VideoInfo struct {
	Duration float64 `json:"duration"` // seconds
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

type probeFormat struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
		Size       string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// ProbeVideo runs ffprobe against a local file and extracts duration,
// dimensions and container format.
func ProbeVideo(path string) (*VideoInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, err
	}

	var probed probeFormat
	if err := json.Unmarshal([]byte(out), &probed); err != nil {
		return nil, err
	}

	info := &VideoInfo{Format: probed.Format.FormatName}
	info.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(probed.Format.Size, 10, 64)

	for _, s := range probed.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			break
		}
	}

	return info, nil
}

// VideoDurationMinutes rounds a probed duration up to whole minutes, the
// unit lesson lengths are stored in.
func VideoDurationMinutes(info *VideoInfo) int {
	if info == nil || info.Duration <= 0 {
		return 0
	}
	minutes := int(info.Duration) / 60
	if int(info.Duration)%60 > 0 {
		minutes++
	}
	return minutes
}
