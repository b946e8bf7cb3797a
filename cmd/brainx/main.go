// brainx runs Brainfuck programs stored as text or as PNG images.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/brainx/internal/config"
	"github.com/ironsheep/brainx/internal/raster"
	"github.com/ironsheep/brainx/internal/runner"
	"github.com/ironsheep/brainx/internal/server"
	"github.com/ironsheep/brainx/internal/tape"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var log = commonlog.GetLogger("brainx")

// errUsage marks command-line mistakes, which exit with status 2.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	brainloller bool
	braincopter bool
	configPath  string
	dumpPath    string
	renderPath  string
	coverPath   string
	width       int
	compile     bool
	serve       bool
	verbose     bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version":
			fmt.Fprintf(stdout, "brainx %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout, nil)
			return 0
		}
	}

	fs := flag.NewFlagSet("brainx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.BoolVar(&o.brainloller, "l", false, "Read FILE as a Brainloller (color table) image")
	fs.BoolVar(&o.brainloller, "brainloller", false, "Same as -l")
	fs.BoolVar(&o.braincopter, "c", false, "Read FILE as a Braincopter (color hash) image")
	fs.BoolVar(&o.braincopter, "braincopter", false, "Same as -c")
	fs.StringVar(&o.configPath, "config", "", "Configuration file (default: brainx.toml found from the working directory up)")
	fs.StringVar(&o.dumpPath, "dump", "", "Write the final machine state to this file as CBOR")
	fs.StringVar(&o.renderPath, "render", "", "Write FILE's source text as a program image to this PNG instead of running it")
	fs.StringVar(&o.coverPath, "cover", "", "Picture to hide a rendered program in (with -render)")
	fs.IntVar(&o.width, "width", 0, "Rendered image width in pixels (with -render)")
	fs.BoolVar(&o.compile, "compile", false, "Print the command string held in FILE instead of running it")
	fs.BoolVar(&o.serve, "serve", false, "Serve tools over MCP on stdin/stdout")
	fs.BoolVar(&o.verbose, "v", false, "Debug logging")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := execute(&o, fs.Args(), stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "brainx: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func execute(o *options, files []string, stdin io.Reader, stdout io.Writer) error {
	if o.brainloller && o.braincopter {
		return fmt.Errorf("%w: -l and -c are mutually exclusive", errUsage)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	configureLogging(cfg, o.verbose)

	r := runner.FromConfig(cfg)

	if o.serve {
		log.Infof("brainx %s serving MCP on stdio", Version)
		return server.NewWithRunner(r).Run()
	}

	if len(files) != 1 {
		return fmt.Errorf("%w: expected exactly one FILE, got %d", errUsage, len(files))
	}
	path := files[0]

	mode := runner.ModeText
	switch {
	case o.brainloller:
		mode = runner.ModeColorTable
	case o.braincopter:
		mode = runner.ModeColorHash
	}

	if o.renderPath != "" {
		return render(r, cfg, o, path, mode)
	}

	program, err := r.Compile(path, mode)
	if err != nil {
		return err
	}
	if o.compile {
		fmt.Fprintln(stdout, program)
		return nil
	}

	r.Input = bufio.NewReader(stdin)
	m := r.Machine(program)
	res, runErr := m.Run()

	if o.dumpPath != "" {
		if err := dump(m, o.dumpPath); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	if _, err := stdout.Write(res.Output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if _, err := fmt.Fprintln(stdout); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// render lays the source text in path out as an image. Text mode renders
// with the color table.
func render(r *runner.Runner, cfg *config.Config, o *options, path string, mode runner.Mode) error {
	if !mode.IsImage() {
		mode = runner.ModeColorTable
	}
	width := o.width
	if width == 0 {
		width = cfg.Render.Width
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read program: %w", err)
	}
	img, err := r.Render(string(source), mode, width, o.coverPath)
	if err != nil {
		return err
	}
	return raster.WriteFile(o.renderPath, img)
}

func dump(m *tape.Machine, path string) error {
	data, err := tape.MarshalSnapshot(m.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode machine state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write machine state: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.FindAndLoad(wd)
}

// configureLogging sends logs to stderr. BRAINX_LOG_LEVEL and -v raise the
// configured verbosity.
func configureLogging(cfg *config.Config, verbose bool) {
	verbosity := cfg.Log.Verbosity
	switch os.Getenv("BRAINX_LOG_LEVEL") {
	case "debug":
		verbosity = 2
	case "info":
		verbosity = 1
	}
	if verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "brainx - Brainfuck, Brainloller and Braincopter interpreter")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: brainx [options] FILE")
	fmt.Fprintln(w, "       brainx -serve")
	fmt.Fprintln(w)
	if fs != nil {
		fmt.Fprintln(w, "Options:")
		fs.PrintDefaults()
	} else {
		fmt.Fprintln(w, "Options:")
		fmt.Fprintln(w, "  -l, -brainloller   FILE is a color-table PNG")
		fmt.Fprintln(w, "  -c, -braincopter   FILE is a color-hash PNG")
		fmt.Fprintln(w, "  -compile           Print the extracted command string")
		fmt.Fprintln(w, "  -render OUT.png    Write FILE's source as a program image")
		fmt.Fprintln(w, "  -dump PATH         Write the final machine state as CBOR")
		fmt.Fprintln(w, "  -serve             Serve tools over MCP on stdin/stdout")
		fmt.Fprintln(w, "  --version          Print version information")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  BRAINX_LOG_LEVEL=debug    Enable debug logging")
}
