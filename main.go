/*
keyframer records and plays back keyframe animations of an articulated
scene. Playback is headless: frames are computed on a timer and handed to
the testbed renderer, which only reports what it would draw.
*/
package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/spaghettifunk/keyframer/engine/core"
)

const (
	flagConfig = "config"
	flagDebug  = "debug"
	flagStep   = "step"
	flagSpeed  = "ms-between-keyframes"
	flagOut    = "out"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "keyframer",
		Usage: "record, inspect and play back keyframe animations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "path to a TOML configuration file",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "play",
				Usage:     "play a keyframe file back against the testbed scene",
				ArgsUsage: "[keyframe file]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagSpeed, Usage: "override the time between keyframes"},
				},
				Action: PlayAction,
			},
			{
				Name:      "inspect",
				Usage:     "summarize a keyframe file",
				ArgsUsage: "[keyframe file]",
				Action:    InspectAction,
			},
			{
				Name:      "sample",
				Usage:     "print interpolated frames in the keyframe file format",
				ArgsUsage: "[keyframe file]",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagStep, Value: 0.25, Usage: "distance between samples, in keyframes"},
				},
				Action: SampleAction,
			},
			{
				Name:  "demo",
				Usage: "record a demo animation of the testbed robots",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "where to write the keyframes (default: the configured keyframe file)"},
				},
				Action: DemoAction,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration",
				Action: ConfigAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		core.LogFatal("%v", err)
	}
}
