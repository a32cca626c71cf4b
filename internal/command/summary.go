package command

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"gs-streamer/internal/session"
	"gs-streamer/internal/stream"
)

func displaySessionStats(st session.Stats, ss *stream.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Counter", "Value"})
	table.Append([]string{"Ticks", fmt.Sprintf("%d", st.Ticks)})
	table.Append([]string{"Frames sent", fmt.Sprintf("%d", st.Frames)})
	table.Append([]string{"Skipped (no pose)", fmt.Sprintf("%d", st.Skipped)})
	table.Append([]string{"Discarded (paused)", fmt.Sprintf("%d", st.Discarded)})
	table.Append([]string{"Degraded", fmt.Sprintf("%d", st.Degraded)})
	table.Append([]string{"Last frame id", fmt.Sprintf("%d", st.LastFrameID)})
	table.Append([]string{"Last render", st.LastRender.String()})

	if ss != nil {
		table.Append([]string{"Stream sent", fmt.Sprintf("%d", ss.Sent)})
		table.Append([]string{"Stream dropped", fmt.Sprintf("%d", ss.Dropped)})
		table.Append([]string{"Stream failed", fmt.Sprintf("%d", ss.Failed)})
		table.Append([]string{"Transfer", ss.Transfer.Round(time.Microsecond).String()})
		table.Append([]string{"Encode", ss.Encode.Round(time.Microsecond).String()})
		table.Append([]string{"Send", ss.Send.Round(time.Microsecond).String()})
	}

	table.Render()
	logger.Noticef("session statistics\n%s", buf.String())
}
