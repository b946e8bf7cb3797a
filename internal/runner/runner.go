// Package runner connects the image decoder, the raster walker and the tape
// machine: it turns a source file into a command string and runs it.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/brainx/internal/config"
	"github.com/ironsheep/brainx/internal/raster"
	"github.com/ironsheep/brainx/internal/tape"
	"github.com/ironsheep/brainx/internal/walker"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("brainx.runner")

// ErrNotImage is returned when an image operation is asked for in text mode.
var ErrNotImage = errors.New("runner: mode has no image form")

// Runner holds the settings shared by every run.
type Runner struct {
	// Images caches decoded program images. Nil decodes on every call.
	Images *raster.Cache

	// Memory seeds the tape; empty means a single zero cell.
	Memory []byte

	// Pointer is the initial data pointer.
	Pointer int

	// Input is the live input read by ',' after the input literal. Nil
	// makes ',' fail once the literal is used up.
	Input io.ByteReader

	// MaxSteps bounds machine execution; zero means no limit.
	MaxSteps int

	// WalkMaxSteps bounds the raster walk; zero means no limit.
	WalkMaxSteps int
}

// FromConfig returns a runner using the machine and walker settings in c.
func FromConfig(c *config.Config) *Runner {
	return &Runner{
		Memory:       []byte(c.Machine.Memory),
		Pointer:      c.Machine.Pointer,
		MaxSteps:     c.Machine.MaxSteps,
		WalkMaxSteps: c.Walker.MaxSteps,
	}
}

// Run compiles the file at path and executes it.
func (r *Runner) Run(path string, mode Mode) (*tape.Result, error) {
	program, err := r.Compile(path, mode)
	if err != nil {
		return nil, err
	}
	return r.Machine(program).Run()
}

// Compile returns the command string held in the file at path. Text files are
// returned verbatim.
func (r *Runner) Compile(path string, mode Mode) (string, error) {
	if !mode.IsImage() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read program: %w", err)
		}
		return string(data), nil
	}

	res, err := r.Walk(path, mode, false)
	if err != nil {
		return "", err
	}
	return res.Program, nil
}

// Walk decodes the image at path and walks it, optionally recording every
// step.
func (r *Runner) Walk(path string, mode Mode, trace bool) (*walker.Result, error) {
	if !mode.IsImage() {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mode)
	}

	img, err := r.load(path)
	if err != nil {
		return nil, err
	}

	w := walker.New(mode.Classifier())
	w.MaxSteps = r.WalkMaxSteps
	w.Trace = trace

	res, err := w.Walk(img)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	log.Infof("%s: %dx%d %s image, %d commands", path, img.Width, img.Height, mode, len(res.Program))
	return res, nil
}

// Machine returns a tape machine for program with the runner's settings.
// Options given here are applied last.
func (r *Runner) Machine(program string, opts ...tape.Option) *tape.Machine {
	base := []tape.Option{
		tape.WithMemory(r.Memory),
		tape.WithPointer(r.Pointer),
		tape.WithMaxSteps(r.MaxSteps),
	}
	if r.Input != nil {
		base = append(base, tape.WithInput(r.Input))
	}
	return tape.New(program, append(base, opts...)...)
}

// Render lays program out width pixels wide and paints it for mode. If
// coverPath is set, the picture there is fitted to the layout and used as the
// base colors.
func (r *Runner) Render(program string, mode Mode, width int, coverPath string) (*raster.Raster, error) {
	if !mode.IsImage() {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mode)
	}

	plan, err := walker.Layout(program, width)
	if err != nil {
		return nil, err
	}

	var cover *raster.Raster
	if coverPath != "" {
		cover, err = raster.LoadCover(coverPath, plan.Width, plan.Height)
		if err != nil {
			return nil, err
		}
	}

	img, err := walker.Render(plan, mode.Painter(), cover)
	if err != nil {
		return nil, err
	}
	log.Infof("rendered %s program as %dx%d image", mode, img.Width, img.Height)
	return img, nil
}

func (r *Runner) load(path string) (*raster.Raster, error) {
	if r.Images != nil {
		return r.Images.Load(path)
	}
	return raster.LoadFile(path)
}
