/*
Command cdat builds and queries compressed direct-address table indexes.

Usage:

	cdat [-config cdat.yaml] <command> [flags]

Commands:

	build     -in text -out index [-size w] [-shift s] [-type bit|wt|perm]
	query     -index file -pattern file [-action count|locate] [-out file]
	check     -in text
	patterns  -in text -out file -n N -length L [-seed S]
	sanitize  -in text -out file [-seed S]

Defaults for build and query flags come from the configuration file and
CDAT_* environment variables.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/npillmayer/cdat"
	"github.com/npillmayer/cdat/alphabet"
	"github.com/npillmayer/cdat/batch"
	"github.com/npillmayer/cdat/config"
	"github.com/npillmayer/cdat/dna"
	"github.com/npillmayer/cdat/patterns"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type command func(app *app, args []string) error

var commands = map[string]command{
	"build":    (*app).build,
	"query":    (*app).query,
	"check":    (*app).check,
	"patterns": (*app).patterns,
	"sanitize": (*app).sanitize,
}

type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	stdout io.Writer
}

var errUsage = errors.New("usage: cdat [-config file] build|query|check|patterns|sanitize [flags]")

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("cdat", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "configuration file (default ./cdat.yaml)")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		fmt.Fprintln(stderr, errUsage)
		return 2
	}
	cmd, ok := commands[global.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "cdat: unknown command %q\n%v\n", global.Arg(0), errUsage)
		return 2
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	a := &app{cfg: cfg, stdout: stdout, log: newLogger(stderr, cfg.Log)}
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	tracing.Select("cdat").SetTraceLevel(tracing.TraceLevelFromString(cfg.Log.TraceLevel))
	if err := cmd(a, global.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		a.log.Error().Err(err).Str("command", global.Arg(0)).Msg("command failed")
		return 1
	}
	return 0
}

func newLogger(w io.Writer, lc config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

func required(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		if fs.Lookup(name).Value.String() == "" {
			return fmt.Errorf("%s: flag -%s is required", fs.Name(), name)
		}
	}
	return nil
}

func (a *app) build(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	in := fs.String("in", "", "text file to index")
	out := fs.String("out", "", "index file to write")
	size := fs.Int("size", a.cfg.Build.WordSize, "word size")
	shift := fs.Int("shift", a.cfg.Build.Shift, "sampling shift")
	kind := fs.String("type", a.cfg.Build.Type, "backend: bit, wt or perm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	k, err := cdat.ParseKind(*kind)
	if err != nil {
		return err
	}
	params := cdat.Params{WordSize: *size, Shift: *shift, Kind: k}
	start := time.Now()
	ix, err := cdat.BuildFile(*in, params, cdat.WithMaxWordValues(a.cfg.Build.MaxWordValues))
	if err != nil {
		return err
	}
	if err := ix.SaveFile(*out); err != nil {
		return err
	}
	st := ix.Stats()
	a.log.Info().
		Str("type", k.String()).
		Int("size", st.WordSize).
		Int("shift", st.Shift).
		Uint64("text", st.TextLength).
		Int("sigma", st.AlphabetSize).
		Float64("mb", st.MegaBytes()).
		Float64("bitsPerSymbol", st.BitsPerSymbol()).
		Dur("elapsed", time.Since(start)).
		Msg("index built")
	return nil
}

func (a *app) query(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	index := fs.String("index", "", "index file")
	patternFile := fs.String("pattern", "", "file with one pattern per line")
	action := fs.String("action", a.cfg.Query.Action, "count or locate")
	out := fs.String("out", "", "result file (default stdout)")
	workers := fs.Int("workers", a.cfg.Query.Workers, "goroutines per query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "index", "pattern"); err != nil {
		return err
	}
	act, err := batch.ParseAction(*action)
	if err != nil {
		return err
	}
	ix, err := cdat.LoadFile(*index, cdat.WithWorkers(*workers))
	if err != nil {
		return err
	}
	a.log.Info().Str("type", ix.Kind().String()).Float64("mb", ix.Stats().MegaBytes()).Msg("index loaded")
	pf, err := os.Open(*patternFile)
	if err != nil {
		return err
	}
	defer pf.Close()
	w := a.stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	runner := batch.Runner{Index: ix, Action: act}
	sum, err := runner.Run(pf, w)
	if err != nil {
		return err
	}
	a.log.Info().
		Str("action", act.String()).
		Uint64("patterns", sum.Patterns).
		Uint64("occurrences", sum.Occurrences).
		Uint64("cached", sum.CacheHits).
		Dur("elapsed", sum.Elapsed).
		Msg("batch done")
	return nil
}

func (a *app) check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	in := fs.String("in", "", "text file to survey")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in"); err != nil {
		return err
	}
	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	rep, err := alphabet.Survey(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "text length: %d\nalphabet size: %d\nsuggested word size: %d\n",
		rep.TextLength, rep.Size, rep.SuggestedWordSize)
	return nil
}

func seedOrClock(seed uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return seed
}

func (a *app) patterns(args []string) error {
	fs := flag.NewFlagSet("patterns", flag.ContinueOnError)
	in := fs.String("in", "", "text file to sample")
	out := fs.String("out", "", "pattern file to write")
	n := fs.Int("n", 1000, "number of patterns")
	length := fs.Int("length", 20, "pattern length")
	seed := fs.Uint64("seed", 0, "random seed (0 = clock)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	text, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	pats, err := patterns.Generate(text, *n, *length, seedOrClock(*seed))
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := patterns.Write(f, pats); err != nil {
		f.Close()
		return err
	}
	a.log.Info().Int("n", len(pats)).Int("length", *length).Msg("patterns written")
	return f.Close()
}

func (a *app) sanitize(args []string) error {
	fs := flag.NewFlagSet("sanitize", flag.ContinueOnError)
	in := fs.String("in", "", "text file to sanitize")
	out := fs.String("out", "", "file to write")
	seed := fs.Uint64("seed", 0, "random seed (0 = clock)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	src, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(*out)
	if err != nil {
		return err
	}
	replaced, err := dna.NewSanitizer(seedOrClock(*seed)).Sanitize(src, dst)
	if err != nil {
		dst.Close()
		return err
	}
	a.log.Info().Int64("replaced", replaced).Msg("text sanitized")
	return dst.Close()
}
