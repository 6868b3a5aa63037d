package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/tga"
	"github.com/bodgit/tga/catalog"
	"github.com/bodgit/tga/config"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const defaultConfig = "tga.yml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func isTGA(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".tga")
}

// readImage loads file, using the TGA decoder for a .tga extension and the
// registered standard decoders otherwise.
func readImage(file string) (*tga.Image, error) {
	if isTGA(file) {
		return tga.Load(file)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	format := tga.RGBA
	switch {
	case m.ColorModel() == color.GrayModel:
		format = tga.Grayscale
	case opaque(m):
		format = tga.RGB
	}

	return tga.FromImage(m, format)
}

func opaque(m image.Image) bool {
	o, ok := m.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// writeImage saves m to file as TGA, or PNG if the extension is .png.
func writeImage(file string, m *tga.Image, o *tga.Options) error {
	if !isTGA(file) && !strings.EqualFold(filepath.Ext(file), ".png") {
		return fmt.Errorf("unsupported output format: %s", file)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if isTGA(file) {
		err = tga.Encode(f, m, o)
	} else {
		err = png.Encode(f, m)
	}
	if err != nil {
		return err
	}

	return f.Close()
}

func parseFormat(s string) (tga.Format, error) {
	switch strings.ToLower(s) {
	case "":
		return tga.None, nil
	case "gray", "grayscale":
		return tga.Grayscale, nil
	case "rgb":
		return tga.RGB, nil
	case "rgba":
		return tga.RGBA, nil
	default:
		return tga.None, fmt.Errorf("unknown format %q", s)
	}
}

func loadConfig(c *cli.Context) (*config.Config, hclog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	if c.IsSet("db") {
		cfg.Database = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   c.App.Name,
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: os.Stderr,
	})

	return cfg, logger, nil
}

func openCatalog(c *cli.Context) (*catalog.Catalog, *config.Config, hclog.Logger, error) {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := catalog.New(cfg.Database, logger.Named("catalog"))
	if err != nil {
		return nil, nil, nil, err
	}

	return db, cfg, logger, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "tga"
	app.Usage = "Truevision TGA image utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"TGA_CONFIG"},
			Value:   defaultConfig,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TGA_DB"},
			Usage:   "path to catalog database",
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"TGA_LOG_LEVEL"},
			Usage:   "log level (trace, debug, info, warn, error)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "info",
			Usage:       "Print the header of a TGA file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := tga.Load(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				h := m.Header()
				fmt.Fprintf(c.App.Writer, "data type:   %d\n", h.DataTypeCode)
				fmt.Fprintf(c.App.Writer, "size:        %dx%d\n", m.Width(), m.Height())
				fmt.Fprintf(c.App.Writer, "format:      %s (%d bits)\n", m.Format(), h.BitsPerPixel)
				fmt.Fprintf(c.App.Writer, "compressed:  %t\n", h.IsRLE())
				fmt.Fprintf(c.App.Writer, "origin:      %d,%d\n", h.XOrigin, h.YOrigin)

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert an image to or from TGA",
			Description: "Reads TGA, PNG, JPEG, GIF, BMP or TIFF and writes TGA or PNG depending on the output extension.",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "rle",
					Usage: "run-length encode TGA output (default from configuration)",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce to at most this many colors",
				},
				&cli.StringFlag{
					Name:  "format",
					Usage: "output pixel format (grayscale, rgb, rgba)",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, logger, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := readImage(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := parseFormat(c.String("format"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if f != tga.None && f != m.Format() {
					if m, err = tga.FromImage(m, f); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				o := &tga.Options{
					RLE:    cfg.RLE,
					Colors: c.Int("colors"),
				}
				if c.IsSet("rle") {
					o.RLE = c.Bool("rle")
				}

				if err := writeImage(c.Args().Get(1), m, o); err != nil {
					return cli.NewExitError(err, 1)
				}

				logger.Info("converted", "input", c.Args().Get(0), "output", c.Args().Get(1), "format", m.Format(), "rle", o.RLE)

				return nil
			},
		},
		{
			Name:        "scale",
			Usage:       "Resize a TGA image",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "width",
					Usage:    "new width in pixels",
					Required: true,
				},
				&cli.IntFlag{
					Name:     "height",
					Usage:    "new height in pixels",
					Required: true,
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, logger, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := readImage(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w, h := m.Width(), m.Height()
				if err := m.Scale(c.Int("width"), c.Int("height")); err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeImage(c.Args().Get(1), m, &tga.Options{RLE: cfg.RLE}); err != nil {
					return cli.NewExitError(err, 1)
				}

				logger.Info("scaled", "input", c.Args().Get(0), "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", m.Width(), m.Height()))

				return nil
			},
		},
		{
			Name:        "flip",
			Usage:       "Mirror a TGA image",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "horizontal",
					Usage: "mirror left to right",
				},
				&cli.BoolFlag{
					Name:  "vertical",
					Usage: "mirror top to bottom",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, _, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := readImage(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if c.Bool("horizontal") {
					m.FlipHorizontal()
				}
				if c.Bool("vertical") {
					m.FlipVertical()
				}

				if err := writeImage(c.Args().Get(1), m, &tga.Options{RLE: cfg.RLE}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "index",
			Usage:       "Scan a directory and index every TGA image",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, cfg, _, err := openCatalog(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				o := catalog.Options{
					Workers:         cfg.Workers,
					ThumbnailWidth:  cfg.Thumbnail.Width,
					ThumbnailHeight: cfg.Thumbnail.Height,
				}

				if err := db.Scan(context.Background(), c.Args().First(), o); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List indexed images",
			Description: "",
			Action: func(c *cli.Context) error {
				db, _, _, err := openCatalog(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				entries, err := db.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, e := range entries {
					fmt.Fprintf(c.App.Writer, "%s\t%dx%d\t%s\t%s\n", e.SHA1, e.Width, e.Height, e.Format, e.Path)
				}

				return nil
			},
		},
		{
			Name:        "thumbnail",
			Usage:       "Extract the thumbnail of an indexed image",
			Description: "",
			ArgsUsage:   "FILE OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, cfg, _, err := openCatalog(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				file, err := filepath.Abs(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := db.Thumbnail(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if m == nil {
					return cli.NewExitError(fmt.Sprintf("%s has not been indexed", file), 1)
				}

				if err := writeImage(c.Args().Get(1), m, &tga.Options{RLE: cfg.RLE}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
