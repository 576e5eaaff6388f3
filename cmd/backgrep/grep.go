package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coregx/backre"
)

// errNoMatch reports that no input line matched.
var errNoMatch = errors.New("no match")

const maxLineSize = 16 << 20

type options struct {
	onlyMatching bool
	count        bool
	multiline    bool
	escaped      bool
	maxSteps     int
	warnings     bool
	dumpNFA      bool
}

func optionsFrom(conf *viper.Viper) options {
	return options{
		onlyMatching: conf.GetBool("only-matching"),
		count:        conf.GetBool("count"),
		multiline:    conf.GetBool("multiline"),
		escaped:      conf.GetBool("escaped"),
		maxSteps:     conf.GetInt("max-steps"),
		warnings:     conf.GetBool("warnings"),
		dumpNFA:      conf.GetBool("dump-nfa"),
	}
}

func run(cmd *cobra.Command, opt options, pattern string, files []string) error {
	config := backre.DefaultConfig()
	config.Unescape = opt.escaped
	config.MaxSteps = opt.maxSteps
	re, err := backre.CompileWithConfig(pattern, config)
	if err != nil {
		return err
	}

	if opt.warnings {
		for _, d := range re.Diagnostics() {
			glog.Warningf("pattern %q: %s", pattern, d)
			fmt.Fprintf(cmd.ErrOrStderr(), "backgrep: %s\n", d)
		}
	}
	if opt.dumpNFA {
		fmt.Fprint(cmd.OutOrStdout(), re.DumpNFA())
	}

	g := &grepper{
		re:     re,
		opt:    opt,
		out:    cmd.OutOrStdout(),
		prefix: len(files) > 1,
	}

	total := 0
	if len(files) == 0 {
		n, err := g.grep(cmd.InOrStdin(), "(standard input)")
		if err != nil {
			return err
		}
		total += n
	}
	for _, name := range files {
		glog.V(2).Infof("searching %s", name)
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "opening %s", name)
		}
		n, err := g.grep(f, name)
		f.Close()
		if err != nil {
			return err
		}
		glog.V(2).Infof("%s: %d matching lines", name, n)
		total += n
	}

	if total == 0 {
		return errNoMatch
	}
	return nil
}

type grepper struct {
	re     *backre.Regex
	opt    options
	out    io.Writer
	prefix bool
}

// grep searches r and returns the number of matching lines.
func (g *grepper) grep(r io.Reader, name string) (int, error) {
	var (
		n   int
		err error
	)
	if g.opt.multiline {
		n, err = g.grepWhole(r, name)
	} else {
		n, err = g.grepLines(r, name)
	}
	if err != nil {
		return n, err
	}
	if g.opt.count {
		g.printf(name, "%d\n", n)
	}
	return n, nil
}

func (g *grepper) grepLines(r io.Reader, name string) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxLineSize)

	n, lineno := 0, 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		matches, status := g.re.SearchAll(line, "")
		if status == backre.StatusTimeout {
			return n, errors.Errorf("%s:%d: step budget exhausted", name, lineno)
		}
		if len(matches) == 0 {
			continue
		}
		n++
		g.emit(name, line, matches)
	}
	return n, errors.Wrapf(sc.Err(), "reading %s", name)
}

// grepWhole searches the input as one text in multiline mode. A line
// counts as matching when a match starts on it.
func (g *grepper) grepWhole(r io.Reader, name string) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s", name)
	}
	text := string(data)

	matches, status := g.re.SearchAll(text, "m")
	if status == backre.StatusTimeout {
		return 0, errors.Errorf("%s: step budget exhausted", name)
	}

	n, lastLine := 0, -1
	for _, m := range matches {
		begin := strings.LastIndexByte(text[:m.Start()], '\n') + 1
		if begin != lastLine {
			lastLine = begin
			n++
			if !g.opt.count && !g.opt.onlyMatching {
				end := strings.IndexByte(text[begin:], '\n')
				if end < 0 {
					end = len(text) - begin
				}
				g.printf(name, "%s\n", text[begin:begin+end])
			}
		}
		if !g.opt.count && g.opt.onlyMatching && !m.IsEmpty() {
			g.printf(name, "%s\n", m.String())
		}
	}
	return n, nil
}

func (g *grepper) emit(name, line string, matches []*backre.Match) {
	switch {
	case g.opt.count:
	case g.opt.onlyMatching:
		for _, m := range matches {
			if !m.IsEmpty() {
				g.printf(name, "%s\n", m.String())
			}
		}
	default:
		g.printf(name, "%s\n", line)
	}
}

func (g *grepper) printf(name, format string, args ...any) {
	if g.prefix {
		fmt.Fprintf(g.out, "%s:", name)
	}
	fmt.Fprintf(g.out, format, args...)
}
