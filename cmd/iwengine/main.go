// Command iwengine opens a window and renders the scene with vulkan until the
// window is closed.
package main

import (
	"flag"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"github.com/andewx/iwengine/internal/config"
	"github.com/andewx/iwengine/internal/dieselvk"
	"github.com/andewx/iwengine/internal/gfx"
	"github.com/andewx/iwengine/internal/logs"
	"github.com/andewx/iwengine/internal/shaders"
)

func init() {
	// glfw and the presentation queue must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	logs.Fatal(run(os.Args[1:]))
}

// parseFlags layers command line overrides on top of the defaults. A nil
// usage without error means the request was answered on out.
func parseFlags(args []string, out io.Writer) (*config.Usage, error) {
	defaults := config.Defaults()
	app := config.NewUsage("CommandLine", 8)
	app.Linked = defaults

	fs := flag.NewFlagSet("iwengine", flag.ContinueOnError)
	fs.SetOutput(out)
	title := fs.String("title", defaults.Strings[config.KeyTitle], "window title")
	width := fs.Int("width", defaults.Ints[config.KeyWidth], "initial window width")
	height := fs.Int("height", defaults.Ints[config.KeyHeight], "initial window height")
	frames := fs.Int("frames", defaults.Ints[config.KeyFramesInFlight], "frames in flight")
	shaderDir := fs.String("shaders", defaults.Strings[config.KeyShaderDir], "directory holding vert.spv and frag.spv")
	levelPath := fs.String("level", defaults.Strings[config.KeyLevel], "level file")
	validation := fs.Bool("validation", defaults.Bools[config.KeyValidation], "enable vulkan validation layers")
	dump := fs.Bool("config", false, "print the resolved configuration and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil
		}
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			app.Strings[config.KeyTitle] = *title
		case "width":
			app.Ints[config.KeyWidth] = *width
		case "height":
			app.Ints[config.KeyHeight] = *height
		case "frames":
			app.Ints[config.KeyFramesInFlight] = *frames
		case "shaders":
			app.Strings[config.KeyShaderDir] = *shaderDir
		case "level":
			app.Strings[config.KeyLevel] = *levelPath
		case "validation":
			app.Bools[config.KeyValidation] = *validation
		}
	})
	if *dump {
		app.Print(out)
		return nil, nil
	}
	return app, nil
}

func run(args []string) error {
	usage, err := parseFlags(args, os.Stdout)
	if err != nil || usage == nil {
		return err
	}
	settings, err := config.Load(usage)
	if err != nil {
		return err
	}

	world, err := loadWorld(settings.Level)
	if err != nil {
		return err
	}

	terminate, err := dieselvk.InitPlatform()
	if err != nil {
		return err
	}
	defer terminate()

	display, err := dieselvk.NewCoreDisplay(settings.Width, settings.Height, settings.Title)
	if err != nil {
		return err
	}
	defer display.Destroy()

	instance, err := dieselvk.NewCoreInstance(settings.Title, display.RequiredExtensions(), settings.Validation)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	surface, err := display.CreateSurface(instance)
	if err != nil {
		return err
	}
	device, err := dieselvk.NewCoreDevice(instance, surface)
	if err != nil {
		return err
	}
	defer device.Destroy()

	source, err := shaders.Load(settings.ShaderDir)
	if err != nil {
		return err
	}

	renderer, err := gfx.New(device, display, source, gfx.Options{
		FramesInFlight: settings.FramesInFlight,
		AcquireTimeout: settings.AcquireTimeout,
		ClearColor:     gfx.ClearColor(settings.ClearColor),
	})
	if err != nil {
		return errors.Wrap(err, "create renderer")
	}
	defer renderer.Destroy()

	last := display.Time()
	err = renderer.Run(func() {
		now := display.Time()
		world.update(display, float32(now-last))
		last = now
		if title, changed := world.title(settings.Title); changed {
			display.SetTitle(title)
		}
	})
	stats := renderer.Stats()
	logs.Info.Printf("presented %d frames, skipped %d, recreated the swapchain %d times",
		stats.Presented, stats.Skipped, stats.Recreations)
	return err
}
