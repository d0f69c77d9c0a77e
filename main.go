package main

import (
	"fmt"
	"io"
	"os"

	"github.com/adnsv/insta485generator/logging"
	"github.com/adnsv/insta485generator/site"
	cli "github.com/jawher/mow.cli"
	"github.com/spf13/afero"
)

const appName = "insta485generator"

type options struct {
	inputDir  string
	outputDir string
	verbose   bool
	plan      bool
}

func main() {
	opts := options{}

	app := cli.App(appName, "Templated static website generator")
	app.Spec = "[OPTIONS] INPUT_DIR"
	app.StringOptPtr(&opts.outputDir, "o output", "", "output directory (default: INPUT_DIR/html)")
	app.BoolOptPtr(&opts.verbose, "v verbose", false, "print more output")
	app.BoolOptPtr(&opts.plan, "plan", false, "print the build plan as YAML without writing anything")
	app.StringArgPtr(&opts.inputDir, "INPUT_DIR", "", "directory with config.json, templates/ and static/")
	app.Version("version", appVersion())

	app.Action = func() {
		if code := run(afero.NewOsFs(), os.Stdout, opts); code != 0 {
			cli.Exit(code)
		}
	}

	app.Run(os.Args)
}

// run executes one generator invocation and returns the process exit code.
func run(fsys afero.Fs, stdout io.Writer, opts options) int {
	fail := func(err error) {
		fmt.Fprintf(stdout, "%s error: %s\n", appName, err)
	}

	if ok, err := afero.DirExists(fsys, opts.inputDir); err != nil || !ok {
		fail(fmt.Errorf("'%s' is not a directory", opts.inputDir))
		return 2
	}

	log := logging.New(stdout, opts.verbose)
	defer log.Sync()

	g := site.NewGenerator(fsys, opts.inputDir, opts.outputDir, log)

	if opts.plan {
		p, err := g.Plan()
		if err == nil {
			err = p.WriteYAML(stdout)
		}
		if err != nil {
			fail(err)
			return 1
		}
		return 0
	}

	if err := g.Generate(); err != nil {
		fail(err)
		return 1
	}
	return 0
}
