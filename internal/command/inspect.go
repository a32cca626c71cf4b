package command

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"gs-streamer/internal/splat"
)

// Inspect prints statistics about a PLY splat scene.
func Inspect(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing PLY scene file argument")
	}

	path := ctx.Args().First()
	cloud, err := splat.LoadPLY(path)
	if err != nil {
		return err
	}

	logger.Noticef("scene information for %s\n%s", path, cloudStats(cloud))
	return nil
}

func cloudStats(c splat.Cloud) string {
	n := c.Count()
	lo, hi := splat.Bounds(c)

	var opacity, scale float64
	for i := 0; i < n; i++ {
		s := c.Splat(i)
		opacity += float64(s.Opacity)
		scale += (s.Scale[0] + s.Scale[1] + s.Scale[2]) / 3
	}
	if n > 0 {
		opacity /= float64(n)
		scale /= float64(n)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "X", "Y", "Z"})
	table.Append([]string{"Bounds min", fmt.Sprintf("%.3f", lo[0]), fmt.Sprintf("%.3f", lo[1]), fmt.Sprintf("%.3f", lo[2])})
	table.Append([]string{"Bounds max", fmt.Sprintf("%.3f", hi[0]), fmt.Sprintf("%.3f", hi[1]), fmt.Sprintf("%.3f", hi[2])})
	table.Append([]string{"Mean scale", fmt.Sprintf("%.4f", scale), "", ""})
	table.SetFooter([]string{"Splats", fmt.Sprintf("%d", n), "Mean opacity", fmt.Sprintf("%.3f", opacity)})
	table.Render()
	return buf.String()
}
