package main

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/gravityrun"
	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/sheet"
	"github.com/bodgit/gravityrun/term"
	"github.com/bodgit/gravityrun/tile"
	"github.com/urfave/cli/v2"
)

const defaultDB = "gravityrun.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openDB(c *cli.Context) (*gravityrun.BlockDB, error) {
	return gravityrun.NewBlockDB(c.String("db"))
}

func sheetOptions(c *cli.Context) *sheet.Options {
	return &sheet.Options{
		Scale: c.Int("scale"),
		Grid:  c.Bool("grid"),
	}
}

func readBlock(file string) (*block.Block, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return tile.DecodeBlock(bufio.NewReader(r), nil)
}

func writeFile(file string, fn func(io.Writer) error) (err error) {
	if file == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}

func getBlock(c *cli.Context, name string) (*block.Block, error) {
	db, err := openDB(c)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	b, err := db.Get(name, nil)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("no block named \"%s\"", name)
	}
	return b, nil
}

var sheetFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "scale",
		Value: 1,
		Usage: "scale the output by `N`",
	},
	&cli.BoolFlag{
		Name:  "grid",
		Usage: "draw the tile grid",
	},
}

func main() {
	app := cli.NewApp()

	app.Name = "gravityrun"
	app.Usage = "GravityRun game and block utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GRAVITYRUN_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to block database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "Play the game",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "title",
					Value: gravityrun.Title,
					Usage: "window title",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: gravityrun.Width,
					Usage: "window width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: gravityrun.Height,
					Usage: "window height",
				},
				&cli.StringFlag{
					Name:  "block",
					Usage: "start with the block `NAME` from the database",
				},
			},
			Action: func(c *cli.Context) error {
				var db *gravityrun.BlockDB
				if c.IsSet("block") {
					var err error
					if db, err = openDB(c); err != nil {
						return cli.Exit(err, 1)
					}
					defer db.Close()
				}

				g := gravityrun.New(db, newLogger(c))
				g.SetSize(c.Int("width"), c.Int("height"))

				if err := g.Start(c.String("block")); err != nil {
					return cli.Exit(err, 1)
				}
				if err := g.Run(c.String("title")); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "encode",
			Usage:     "Convert an image into serialized block text",
			ArgsUsage: "IMAGE [OUTPUT]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce the image to `N` colors first",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				output := c.Args().Get(1)
				if output == "" {
					output = "-"
				}

				e := &tile.Encoder{Colors: c.Int("colors")}
				if err := writeFile(output, func(w io.Writer) error {
					if err := e.Encode(w, m); err != nil {
						return err
					}
					_, err := io.WriteString(w, "\n")
					return err
				}); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Render serialized block text as a PNG",
			ArgsUsage: "FILE OUTPUT",
			Flags:     sheetFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := readBlock(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writeFile(c.Args().Get(1), func(w io.Writer) error {
					return sheet.Encode(w, b, sheetOptions(c))
				}); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Import images into the block database",
			Description: "A single image is stored under NAME, or its base name. A directory is scanned for images, each stored under its base name.",
			ArgsUsage:   "PATH [NAME]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce each image to `N` colors first",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: gravityrun.DefaultWorkers,
					Usage: "number of images to import concurrently",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				e := &tile.Encoder{Colors: c.Int("colors")}
				path := c.Args().First()

				info, err := os.Stat(path)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if info.IsDir() {
					g := gravityrun.New(db, newLogger(c))
					if err := g.Import(path, c.Int("workers"), e); err != nil {
						return cli.Exit(err, 1)
					}
					return nil
				}

				name := c.Args().Get(1)
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
				if err := db.ImportImage(name, path, e); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Render a block from the database as a PNG",
			ArgsUsage: "NAME OUTPUT",
			Flags:     sheetFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := getBlock(c, c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writeFile(c.Args().Get(1), func(w io.Writer) error {
					return sheet.Encode(w, b, sheetOptions(c))
				}); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "show",
			Usage:     "Preview a block in the terminal",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "file",
					Usage: "read serialized block text from `FILE` instead of the database",
				},
			},
			Action: func(c *cli.Context) error {
				var (
					b     *block.Block
					title string
					err   error
				)
				switch {
				case c.IsSet("file"):
					title = c.String("file")
					b, err = readBlock(title)
				case c.NArg() > 0:
					title = c.Args().First()
					b, err = getBlock(c, title)
				default:
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := term.Show(b, title); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List the blocks in the database",
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				names, err := db.Names()
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete a block from the database",
			ArgsUsage: "NAME",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				ok, err := db.Delete(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				if !ok {
					return cli.Exit(errors.New("no such block"), 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
