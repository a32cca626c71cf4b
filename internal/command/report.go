package command

import (
	"encoding/json"
	"os"
	"time"

	"gs-streamer/internal/config"
	"gs-streamer/internal/session"
	"gs-streamer/internal/stream"
)

// Report is the JSON summary written at the end of a serve run.
type Report struct {
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
	PLYFile  string    `json:"ply_file"`
	Splats   int       `json:"splats"`
	Stereo   bool      `json:"stereo"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`

	Ticks       uint64 `json:"ticks"`
	Frames      uint64 `json:"frames"`
	Skipped     uint64 `json:"skipped"`
	Discarded   uint64 `json:"discarded"`
	Degraded    uint64 `json:"degraded"`
	LastFrameID int64  `json:"last_frame_id"`

	Stream *StreamReport `json:"stream,omitempty"`
}

// StreamReport holds the streamer counters of a Report.
type StreamReport struct {
	Sent     uint64  `json:"sent"`
	Dropped  uint64  `json:"dropped"`
	Failed   uint64  `json:"failed"`
	EncodeMS float64 `json:"encode_ms"`
	SendMS   float64 `json:"send_ms"`
}

func newReport(cfg config.Config, splats int, started time.Time, st session.Stats, ss *stream.Stats) Report {
	w, h := cfg.Width, cfg.Height
	r := Report{
		Started:     started,
		Duration:    time.Since(started).Round(time.Millisecond).String(),
		PLYFile:     cfg.PLYFile,
		Splats:      splats,
		Stereo:      cfg.Stereo,
		Width:       w,
		Height:      h,
		Ticks:       st.Ticks,
		Frames:      st.Frames,
		Skipped:     st.Skipped,
		Discarded:   st.Discarded,
		Degraded:    st.Degraded,
		LastFrameID: st.LastFrameID,
	}
	if ss != nil {
		r.Stream = &StreamReport{
			Sent:     ss.Sent,
			Dropped:  ss.Dropped,
			Failed:   ss.Failed,
			EncodeMS: float64(ss.Encode) / float64(time.Millisecond),
			SendMS:   float64(ss.Send) / float64(time.Millisecond),
		}
	}
	return r
}

// WriteReport writes the report as indented JSON.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
