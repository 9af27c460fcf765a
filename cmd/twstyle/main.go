package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/gotailwindcss/twstyle"
	"github.com/gotailwindcss/twstyle/twembed"
	"github.com/gotailwindcss/twstyle/twfiles"
	"github.com/gotailwindcss/twstyle/twhandler"
	"github.com/gotailwindcss/twstyle/twpurge"
	"github.com/gotailwindcss/twstyle/twsheet"
	"github.com/gotailwindcss/twstyle/twstyles"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

var (
	app = kingpin.New("twstyle", "Compile utility class names into CSS")
	v   = app.Flag("verbose", "Print verbose output").Short('v').Bool()

	configDir  = app.Flag("config", "Directory holding YAML configuration applied over the defaults").String()
	configName = app.Flag("config-name", "Configuration document name, without the .yaml extension").Default("twstyle").String()
	scanPath   = app.Flag("scan", "Scan file/folder recursively for class names").String()
	scanExt    = app.Flag("ext", "Comma separated list of file extensions (no periods) to scan for class names").Default("html,htm,vue,jsx,tsx,vugu,svelte").String()
	previous   = app.Flag("previous", "Previously generated CSS file whose class names are kept").String()
	classNames = app.Flag("class", "Class name to include, may be repeated").Short('c').Strings()

	build       = app.Command("build", "Build CSS output")
	buildOutput = build.Flag("output", "Output file name, use hyphen for stdout").Short('o').Default("-").String()
	buildMinify = build.Flag("minify", "Minify the output").Bool()
	buildInput  = build.Arg("input", "Input file name(s), \"@utilities;\" marks where the rules go").Strings()

	serve       = app.Command("serve", "Serve CSS over HTTP")
	serveAddr   = serve.Flag("addr", "Listen address").Default("127.0.0.1:8080").String()
	serveDir    = serve.Flag("dir", "Directory of input CSS files, the sheet alone is served when empty").String()
	servePrefix = serve.Flag("prefix", "URL path prefix to strip").String()
	serveMaxAge = serve.Flag("max-age", "Cache-Control max-age in seconds").Default("0").Int()
)

func main() {

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	log, err := newLogger(*v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch cmd {

	case build.FullCommand():
		err = runBuild(log)

	case serve.FullCommand():
		err = runServe(log)

	default:
		fmt.Fprintf(os.Stderr, "No command specified\n")
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// newSheet loads the configuration and fills a sheet with every class name
// found by the scan, the previous CSS file and -c flags.
func newSheet(log *zap.Logger) (*twsheet.Sheet, error) {

	c := twstyle.New(log)
	if err := twstyles.Register(c); err != nil {
		return nil, err
	}

	cfg, err := twstyle.OpenConfig(twembed.New(), "default")
	if err != nil {
		return nil, err
	}
	ops, err := c.ApplyConfig(cfg)
	if err != nil {
		return nil, err
	}

	if *configDir != "" {
		log.Info("loading configuration", zap.String("dir", *configDir), zap.String("name", *configName))
		cfg, err := twstyle.OpenConfig(twfiles.New(*configDir), *configName)
		if err != nil {
			return nil, err
		}
		more, err := c.ApplyConfig(cfg)
		if err != nil {
			return nil, err
		}
		ops = append(ops, more...)
	}

	sheet := twsheet.New(c, log)
	if err := sheet.Apply(ops); err != nil {
		return nil, err
	}

	var names []string

	if *scanPath != "" {
		log.Info("scanning for class names", zap.String("path", *scanPath))

		extParts := strings.Split(*scanExt, ",")
		extMap := make(map[string]bool, len(extParts))
		for _, p := range extParts {
			extMap["."+strings.TrimPrefix(p, ".")] = true
		}

		p := twpurge.New(c.Accepts)
		err := filepath.Walk(*scanPath, p.WalkFunc(func(fn string) bool {
			return extMap[filepath.Ext(fn)]
		}))
		if err != nil {
			return nil, err
		}
		names = append(names, p.Names()...)
	}

	if *previous != "" {
		f, err := os.Open(*previous)
		if err != nil {
			return nil, err
		}
		prev, err := twpurge.NamesFromCSS(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", *previous, err)
		}
		names = append(names, prev...)
	}

	names = append(names, *classNames...)

	// names from markup or an older sheet may no longer compile
	if err := sheet.Add(names...); err != nil {
		log.Warn("some class names were skipped", zap.Int("count", len(multierr.Errors(err))), zap.Error(err))
	}
	log.Info("sheet ready", zap.Int("names", len(names)), zap.Int("rules", len(sheet.Styles())))
	return sheet, nil
}

func runBuild(log *zap.Logger) error {

	log.Info("starting build")

	sheet, err := newSheet(log)
	if err != nil {
		return err
	}

	var w io.Writer
	outpath := *buildOutput
	if outpath == "" || outpath == "-" {
		log.Debug("using stdout")
		w = os.Stdout
	} else {
		log.Debug("creating output file", zap.String("path", outpath))
		f, err := os.Create(outpath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if len(*buildInput) == 0 {
		sheet.SetMinify(*buildMinify)
		_, err := sheet.WriteTo(w)
		return err
	}

	conv := twstyle.NewConverter(w, sheet.Compiler())
	conv.SetUtilitiesFunc(sheet.WriteUtilities)
	if *buildMinify {
		conv.SetPostProcFunc(func(out io.Writer, in io.Reader) error {
			m := minify.New()
			m.AddFunc("text/css", css.Minify)
			return m.Minify("text/css", out, in)
		})
	}

	for _, inPath := range *buildInput {
		log.Debug("adding file", zap.String("path", inPath))
		fin, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer fin.Close()
		conv.AddReader(inPath, fin, false)
	}

	log.Debug("performing conversion")
	return conv.Run()
}

func runServe(log *zap.Logger) error {

	sheet, err := newSheet(log)
	if err != nil {
		return err
	}

	var fs http.FileSystem
	if *serveDir != "" {
		fs = http.Dir(*serveDir)
	}
	h := twhandler.New(fs, *servePrefix, sheet)
	h.SetMaxAge(*serveMaxAge)

	log.Info("listening", zap.String("addr", *serveAddr))
	return http.ListenAndServe(*serveAddr, h)
}
