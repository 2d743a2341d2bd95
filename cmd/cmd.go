// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/getlrc/internal/shared"
	"github.com/urfave/cli/v3"
)

// app builds the root command. A single directory argument runs a scan.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:      shared.AppName,
		Usage:     "Fetch synchronized lyrics from LRCLIB for a music library",
		ArgsUsage: "[music-dir]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default: $GETLRC_CONFIG or <config-dir>/getlrc/config.toml)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-tui",
				Usage: "Log progress as plain lines instead of the interactive display",
			},
			&cli.BoolFlag{
				Name:  "paused",
				Usage: "Start a restored session paused",
			},
		},
		Before:   r.configure,
		Action:   r.Default,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		scanCommand, setupCommand, doctorCommand, cacheCommand, sessionCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// scanCommand runs the lyrics pipeline over a directory
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Download missing lyrics for every audio file under a directory",
		ArgsUsage: "<music-dir>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir"},
		},
		Action: r.Scan,
	}
}

// setupCommand writes the config file and prepares the data directory.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write a default config file, create data directories and migrate the cache database",
		Action: r.Setup,
	}
}

// doctorCommand runs preflight checks without touching the library
func doctorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "doctor",
		Usage:  "Check configuration, data directory and cache database",
		Action: r.Doctor,
	}
}

// cacheCommand inspects and clears the negative lookup cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the cache of tracks without synced lyrics",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Count cached misses and show their age",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:      "check",
				Usage:     "Report whether a track is cached as having no lyrics",
				ArgsUsage: "<artist> <title>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "artist"},
					&cli.StringArg{Name: "title"},
				},
				Action: r.CacheCheck,
			},
			{
				Name:  "clear",
				Usage: "Delete every cached miss so those tracks are looked up again",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm deletion",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// sessionCommand inspects the saved session
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect or discard the saved session",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the saved session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, csv or markdown",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.SessionShow,
			},
			{
				Name:   "clear",
				Usage:  "Delete the saved session so the next scan starts over",
				Action: r.SessionClear,
			},
		},
	}
}
