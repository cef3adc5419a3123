// Command envcurve inspects, evaluates and renders envelope curves.
//
// Usage:
//
//	envcurve [-v] <command> [flags] [args ...]
//
// Commands:
//
//	info CURVE...                      summarize each curve
//	eval CURVE T...                    print the level at each time
//	integrate CURVE T1 T2              print the area under the curve
//	bound [-err e] CURVE T1 AREA       print the time at which AREA has accumulated since T1
//	split CURVE T...                   print the compact form of each piece
//	plot [-o dir] [-w px] [-h px] [-j n] CURVE...
//
// A CURVE is the path of a JSON file holding a curve in compact form, "-"
// for standard input, or the compact form itself when it starts with "[".
//
// Examples:
//
//	envcurve info '[[1,2,0.5],[0.1,0.9],["exp",-2]]'
//	envcurve eval tempo.json 0 0.5 1
//	envcurve bound -err 1e-9 tempo.json 0 16
//	envcurve plot -o out -w 800 -h 300 pitch.json volume.json
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"honnef.co/go/envelope"
)

// usageError is returned for malformed command lines. It makes main print
// the usage and exit with status 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{fmt.Sprintf(format, args...)}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(os.Stderr, "envcurve: %s\n\n", ue.msg)
		printUsage(os.Stderr)
		stop()
		os.Exit(2)
	}
	slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("envcurve failed", slog.String("error", err.Error()))
	stop()
	os.Exit(1)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: envcurve [-v] <command> [flags] [args ...]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  info CURVE...                  summarize each curve\n")
	fmt.Fprintf(w, "  eval CURVE T...                print the level at each time\n")
	fmt.Fprintf(w, "  integrate CURVE T1 T2          print the area under the curve\n")
	fmt.Fprintf(w, "  bound [-err e] CURVE T1 AREA   print the time at which AREA has accumulated\n")
	fmt.Fprintf(w, "  split CURVE T...               print the compact form of each piece\n")
	fmt.Fprintf(w, "  plot [-o dir] [-w px] [-h px] [-j n] CURVE...\n")
	fmt.Fprintf(w, "\nA CURVE is a JSON file, - for standard input, or an inline compact form.\n")
}

// app carries what every command needs.
type app struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
	styled bool
}

type command func(a *app, args []string) error

var commands = map[string]command{
	"info":      (*app).info,
	"eval":      (*app).eval,
	"integrate": (*app).integrate,
	"bound":     (*app).bound,
	"split":     (*app).split,
	"plot":      (*app).plot,
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("envcurve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("v", false, "log progress to standard error")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}
	if fs.NArg() == 0 {
		return usagef("missing command")
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		return usagef("unknown command %q", name)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	a := &app{
		ctx:    ctx,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
			With(slog.String("component", "envcurve"), slog.String("command", name)),
		styled: isTerminal(stdout),
	}
	return cmd(a, rest)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) style(s lipgloss.Style, text string) string {
	if !a.styled {
		return text
	}
	return s.Render(text)
}

// loadCurve reads the curve named by arg.
func (a *app) loadCurve(arg string) (*envelope.Curve, error) {
	var data []byte
	switch {
	case arg == "-":
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		data = b
	case strings.HasPrefix(strings.TrimSpace(arg), "["):
		data = []byte(arg)
	default:
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		data = b
	}
	var c envelope.Curve
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", curveLabel(arg), err)
	}
	a.log.Debug("loaded curve",
		slog.String("curve", curveLabel(arg)),
		slog.Int("segments", c.NumSegments()),
		slog.Float64("length", c.Length()))
	return &c, nil
}

func curveLabel(arg string) string {
	switch {
	case arg == "-":
		return "stdin"
	case strings.HasPrefix(strings.TrimSpace(arg), "["):
		return "inline"
	default:
		return arg
	}
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, usagef("invalid number %q", arg)
		}
		out[i] = f
	}
	return out, nil
}

func (a *app) info(args []string) error {
	if len(args) == 0 {
		return usagef("info: missing CURVE")
	}
	for i, arg := range args {
		c, err := a.loadCurve(arg)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintln(a.stdout, a.style(headerStyle, curveLabel(arg)))

		tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
		rows := []struct {
			key   string
			value any
		}{
			{"length", c.Length()},
			{"segments", c.NumSegments()},
			{"start", c.StartLevel()},
			{"end", c.EndLevel()},
			{"min", c.MinLevel()},
			{"max", c.MaxLevel()},
			{"average", c.AverageLevel()},
			{"max slope", c.MaxAbsSlope()},
			{"inflections", c.InflectionPoints()},
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(tw, "%s\t%v\n", a.style(keyStyle, row.key), row.value); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		// The header is styled after alignment so its escape codes don't
		// count towards the column widths.
		var table bytes.Buffer
		tw = tabwriter.NewWriter(&table, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tstart\tend\tfrom\tto\tshape")
		j := 0
		for seg := range c.Segments() {
			fmt.Fprintf(tw, "%d\t%g\t%g\t%g\t%g\t%g\n",
				j, seg.StartTime(), seg.EndTime(), seg.StartLevel(), seg.EndLevel(), seg.Shape())
			j++
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		header, body, _ := strings.Cut(table.String(), "\n")
		if _, err := fmt.Fprintf(a.stdout, "\n%s\n%s", a.style(keyStyle, header), body); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) eval(args []string) error {
	if len(args) < 2 {
		return usagef("eval: expected CURVE T...")
	}
	ts, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	c, err := a.loadCurve(args[0])
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	for _, t := range ts {
		if _, err := fmt.Fprintf(tw, "%g\t%g\n", t, c.ValueAt(t)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (a *app) integrate(args []string) error {
	if len(args) != 3 {
		return usagef("integrate: expected CURVE T1 T2")
	}
	bounds, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	c, err := a.loadCurve(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%g\n", c.Integrate(bounds[0], bounds[1]))
	return err
}

func (a *app) bound(args []string) error {
	fs := flag.NewFlagSet("bound", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	maxError := fs.Float64("err", envelope.DefaultAccuracy, "largest acceptable shortfall of the area")
	if err := fs.Parse(args); err != nil {
		return usagef("bound: %v", err)
	}
	if fs.NArg() != 3 {
		return usagef("bound: expected CURVE T1 AREA")
	}
	if !(*maxError > 0) {
		return usagef("bound: -err must be positive")
	}
	nums, err := parseFloats(fs.Args()[1:])
	if err != nil {
		return err
	}
	c, err := a.loadCurve(fs.Arg(0))
	if err != nil {
		return err
	}
	t2, err := c.UpperIntegrationBound(nums[0], nums[1], *maxError)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%g\n", t2)
	return err
}

func (a *app) split(args []string) error {
	if len(args) < 2 {
		return usagef("split: expected CURVE T...")
	}
	ts, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	c, err := a.loadCurve(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.stdout)
	for _, piece := range c.SplitAt(ts...) {
		if err := enc.Encode(piece); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dir := fs.String("o", ".", "output directory")
	width := fs.Int("w", 640, "image width in pixels")
	height := fs.Int("h", 320, "image height in pixels")
	jobs := fs.Int("j", runtime.NumCPU(), "number of images rendered at once")
	if err := fs.Parse(args); err != nil {
		return usagef("plot: %v", err)
	}
	if fs.NArg() == 0 {
		return usagef("plot: missing CURVE")
	}
	if *width <= 0 || *height <= 0 || *jobs <= 0 {
		return usagef("plot: -w, -h and -j must be positive")
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(a.ctx)
	g.SetLimit(*jobs)
	for i, arg := range fs.Args() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := a.loadCurve(arg)
			if err != nil {
				return err
			}
			path := filepath.Join(*dir, plotName(arg, i)+".png")
			if err := writePNG(path, c, *width, *height); err != nil {
				return err
			}
			a.log.Debug("wrote plot", slog.String("curve", curveLabel(arg)), slog.String("path", path))
			return nil
		})
	}
	return g.Wait()
}

// plotName returns the base name of the image for the i-th curve argument.
func plotName(arg string, i int) string {
	if arg == "-" || strings.HasPrefix(strings.TrimSpace(arg), "[") {
		return fmt.Sprintf("curve%d", i)
	}
	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writePNG(path string, c *envelope.Curve, width, height int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, envelope.Plot(c, envelope.WithSize(width, height)))
}
