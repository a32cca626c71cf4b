package command

import "github.com/urfave/cli"

// NewApp builds the command line application.
func NewApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "gs-streamer"
	app.Usage = "render gaussian splat scenes for remote poses and stream the frames"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "JSON or YAML config file",
		},
	}

	renderFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "size",
			Usage: "output resolution as WIDTHxHEIGHT (default: 1920x1080)",
		},
		cli.BoolFlag{
			Name:  "stereo",
			Usage: "render side by side stereo views",
		},
		cli.BoolFlag{
			Name:  "tonemap",
			Usage: "apply ACES tonemapping to output frames",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "stream frames of a splat scene for received poses",
			Description: `
Load a binary PLY gaussian splat scene, listen for camera poses over UDP and
render one frame per new pose. Frames are WebP encoded and sent over TCP,
each prefixed with the id of the pose that produced it.`,
			ArgsUsage: "scene.ply",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "video",
					Usage: "video client address (default: 127.0.0.1:12345)",
				},
				cli.StringFlag{
					Name:  "pose",
					Usage: "pose listen address (default: 0.0.0.0:54321)",
				},
				cli.StringFlag{
					Name:  "dump",
					Usage: "write frames into this directory instead of streaming them",
				},
				cli.BoolFlag{
					Name:  "window",
					Usage: "show frames in a local window",
				},
			}, renderFlags...),
			Action: Serve,
		},
		{
			Name:      "inspect",
			Usage:     "print statistics about a PLY splat scene",
			ArgsUsage: "scene.ply",
			Action:    Inspect,
		},
		{
			Name:      "still",
			Usage:     "render a single frame to a .webp or .tga file",
			ArgsUsage: "scene.ply",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.webp",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "position",
					Usage: "camera position as x,y,z",
				},
				cli.StringFlag{
					Name:  "orientation",
					Usage: "camera orientation quaternion as w,x,y,z",
				},
			}, renderFlags...),
			Action: Still,
		},
	}

	return app
}
