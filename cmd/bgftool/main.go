package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/bgftool"
	"github.com/bodgit/bgftool/bgf"
	"github.com/bodgit/bgftool/dither"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newTool(c *cli.Context) (*bgftool.Tool, func(), error) {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	var cache *bgftool.Cache
	if file := c.String("cache"); file != "" {
		var err error
		if cache, err = bgftool.NewCache(file); err != nil {
			return nil, nil, err
		}
		logger.Debug("using cache", slog.String("path", file))
	}

	return bgftool.New(cache, logger, c.Int("workers")), func() {
		if cache != nil {
			cache.Close()
		}
	}, nil
}

func options(c *cli.Context) (bgf.Options, error) {
	method, err := dither.ParseMethod(c.String("dither"))
	if err != nil {
		return bgf.Options{}, err
	}

	return bgf.Options{
		Dither: dither.Options{
			Method:           method,
			TransparencyClip: float32(c.Float64("transparency-clip")),
			Seed:             c.Uint64("seed"),
			R2Seed:           c.Float64("r2-seed"),
		},
	}, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "bgftool"
	app.Usage = "BGF sprite container conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"BGFTOOL_CACHE"},
			Usage:   "path to conversion cache database",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			EnvVars: []string{"BGFTOOL_WORKERS"},
			Usage:   "number of bitmaps to process at once, 0 for one per CPU",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "decompile",
			Usage:       "Split a BGF file into images and a description",
			Description: "Each bitmap is written as DIRECTORY/NAME_NNNN.EXT next to NAME.json.",
			ArgsUsage:   "FILE [DIRECTORY]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "ext",
					Value: "png",
					Usage: "image format, one of " + strings.Join(bgftool.Extensions, ", "),
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				dir := filepath.Dir(c.Args().First())
				if c.NArg() > 1 {
					dir = c.Args().Get(1)
				}

				t, closeFunc, err := newTool(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closeFunc()

				if err := t.Decompile(c.Args().First(), dir, c.String("ext")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "compile",
			Usage:       "Build a BGF file from a description",
			Description: "Images are dithered against the fixed palette unless the description overrides the method.",
			ArgsUsage:   "DESCRIPTION OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "dither",
					Value: dither.None.String(),
					Usage: "dithering method, one of " + strings.Join(dither.MethodNames(), ", "),
				},
				&cli.Float64Flag{
					Name:  "transparency-clip",
					Value: 0.5,
					Usage: "alpha below which a pixel becomes transparent",
				},
				&cli.Uint64Flag{
					Name:  "seed",
					Usage: "seed for pcg noise",
				},
				&cli.Float64Flag{
					Name:  "r2-seed",
					Usage: "seed for r2 noise",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				t, closeFunc, err := newTool(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closeFunc()

				if err := t.Compile(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
