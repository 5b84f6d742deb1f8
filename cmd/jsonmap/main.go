// Command jsonmap encodes and verifies JSON documents through the json-mapper
// writers.
//
// Commands:
//
//	jsonmap encode [--canonical] [--indent N] [--out FILE] [--max-input BYTES] [file|-]
//	    Decode JSON from file (or stdin) and write it back through the
//	    mapper. With --out the document is written atomically to FILE and
//	    ends with a single LF.
//
//	jsonmap verify [--quiet] [--max-input BYTES] [file|-]
//	    Check that the input is already in canonical form. One trailing LF
//	    is accepted.
//
// Exit codes:
//
//	0  success
//	2  usage error, invalid input, non-canonical input, or mapping failure
//	10 output (transport) failure or internal error
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/lattice-substrate/json-mapper/jsonerr"
	"github.com/lattice-substrate/json-mapper/jsonfile"
	"github.com/lattice-substrate/json-mapper/jsonmap"
)

const (
	exitSuccess = 0

	// defaultMaxInputSize bounds how much input a single invocation reads
	// unless --max-input is given.
	defaultMaxInputSize = 64 << 20

	usage = "usage: jsonmap <encode|verify> [options] [file|-]"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usage); err != nil {
			return jsonerr.Other.ExitCode()
		}
		return jsonerr.CLIUsage.ExitCode()
	}

	switch args[0] {
	case "encode":
		return cmdEncode(args[1:], stdin, stdout, stderr)
	case "verify":
		return cmdVerify(args[1:], stdin, stderr)
	default:
		if err := writef(stderr, "unknown command: %s\n%s\n", args[0], usage); err != nil {
			return jsonerr.Other.ExitCode()
		}
		return jsonerr.CLIUsage.ExitCode()
	}
}

type flags struct {
	canonical bool
	indent    int
	out       string
	maxInput  int
	quiet     bool
	debug     bool
	help      bool
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		switch arg {
		case "--canonical", "-c":
			f.canonical = true
		case "--indent", "--out", "--max-input":
			if i+1 >= len(args) {
				return flags{}, nil, fmt.Errorf("option %s requires a value", arg)
			}
			i++
			if arg == "--out" {
				f.out = args[i]
				continue
			}
			n, err := strconv.Atoi(args[i])
			switch {
			case arg == "--indent" && (err != nil || n < 0 || n > 16):
				return flags{}, nil, fmt.Errorf("invalid indent %q: want 0..16", args[i])
			case arg == "--indent":
				f.indent = n
			case err != nil || n <= 0:
				return flags{}, nil, fmt.Errorf("invalid max input %q: want a positive byte count", args[i])
			default:
				f.maxInput = n
			}
		case "--quiet", "-q":
			f.quiet = true
		case "--debug":
			f.debug = true
		case "--help", "-h":
			f.help = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func (f flags) inputLimit() int {
	if f.maxInput > 0 {
		return f.maxInput
	}
	return defaultMaxInputSize
}

func (f flags) mapper() *jsonmap.Mapper {
	var opts []jsonmap.Option
	if f.canonical {
		opts = append(opts, jsonmap.WithCanonical())
	}
	if f.indent > 0 {
		opts = append(opts, jsonmap.WithIndent(strings.Repeat(" ", f.indent)))
	}
	return jsonmap.New(opts...)
}

func cmdEncode(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, jsonerr.CLIUsage, "error: %v\n", err)
	}

	if fl.help {
		if err := writeEncodeHelp(stderr); err != nil {
			return jsonerr.Other.ExitCode()
		}
		return exitSuccess
	}

	if exitCode, ok := ensureSingleInput(positional, stderr); ok {
		return exitCode
	}

	_, v, code, ok := loadDocument(positional, stdin, stderr, fl)
	if !ok {
		return code
	}

	m := fl.mapper()
	if fl.out != "" {
		err = jsonfile.WriteFile(fl.out, m, v)
	} else {
		err = m.Write(stdout, v)
	}
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	return exitSuccess
}

func cmdVerify(args []string, stdin io.Reader, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, jsonerr.CLIUsage, "error: %v\n", err)
	}

	if fl.help {
		if err := writeVerifyHelp(stderr); err != nil {
			return jsonerr.Other.ExitCode()
		}
		return exitSuccess
	}

	if exitCode, ok := ensureSingleInput(positional, stderr); ok {
		return exitCode
	}

	input, v, code, ok := loadDocument(positional, stdin, stderr, fl)
	if !ok {
		return code
	}

	canonical, err := jsonmap.New(jsonmap.WithCanonical()).Marshal(v)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	if !bytes.Equal(bytes.TrimSuffix(input, []byte("\n")), canonical) {
		return writeErrorAndReturn(stderr, jsonerr.NotCanonical, "error: input is not canonical\n")
	}

	if !fl.quiet {
		if err := writeLine(stderr, "ok"); err != nil {
			return jsonerr.Other.ExitCode()
		}
	}
	return exitSuccess
}

// loadDocument reads and decodes the single input document. On failure it has
// already reported to stderr and returns the exit code with ok == false.
func loadDocument(positional []string, stdin io.Reader, stderr io.Writer, fl flags) ([]byte, any, int, bool) {
	input, err := readInput(positional, stdin, fl.inputLimit())
	if err != nil {
		return nil, nil, writeErrorAndReturn(stderr, jsonerr.InvalidInput, "error: reading input: %v\n", err), false
	}
	v, err := decode(input)
	if err != nil {
		return nil, nil, writeErrorAndReturn(stderr, jsonerr.InvalidInput, "error: %v\n", err), false
	}
	if fl.debug {
		spew.Fdump(stderr, v)
	}
	return input, v, exitSuccess, true
}

// decode parses exactly one JSON value. Numbers are kept as json.Number so
// their literal text survives non-canonical encoding.
func decode(input []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after top-level value")
	}
	return v, nil
}

// errInputTooLarge reports input beyond the --max-input bound.
var errInputTooLarge = errors.New("input exceeds maximum size")

// readInput reads the single input document named by positional, or stdin.
func readInput(positional []string, stdin io.Reader, maxInputSize int) ([]byte, error) {
	name, r := "stdin", stdin
	if len(positional) == 1 && positional[0] != "-" {
		f, err := os.Open(positional[0])
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		name, r = strconv.Quote(positional[0]), f
	}

	data, err := readBounded(r, maxInputSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func readBounded(r io.Reader, maxInputSize int) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(maxInputSize)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("%w of %d bytes", errInputTooLarge, maxInputSize)
	}
	return data, nil
}

func ensureSingleInput(positional []string, stderr io.Writer) (int, bool) {
	if len(positional) <= 1 {
		return 0, false
	}
	return writeErrorAndReturn(stderr, jsonerr.CLIUsage, "error: multiple input files specified\n"), true
}

// writeClassifiedError reports a failure of the mapper and returns the exit
// code of its class.
func writeClassifiedError(stderr io.Writer, err error) int {
	class := jsonerr.Classify(err)
	return writeErrorAndReturn(stderr, class, "error: %s: %v\n", class, err)
}

func writeErrorAndReturn(stderr io.Writer, class jsonerr.Class, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return jsonerr.Other.ExitCode()
	}
	return class.ExitCode()
}

func writeEncodeHelp(stderr io.Writer) error {
	lines := []string{
		"usage: jsonmap encode [--canonical] [--indent N] [--out FILE] [--max-input BYTES] [--debug] [file|-]",
		"  Decode JSON from file (or stdin) and write it through the mapper.",
		"  --canonical  Emit RFC 8785 canonical form",
		"  --indent N   Indent nested values by N spaces",
		"  --out FILE   Write atomically to FILE instead of stdout",
		"  --max-input BYTES",
		"               Reject input larger than BYTES (default 64 MiB)",
		"  --debug      Dump the decoded value to stderr",
	}
	for _, l := range lines {
		if err := writeLine(stderr, l); err != nil {
			return err
		}
	}
	return nil
}

func writeVerifyHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: jsonmap verify [--quiet] [--max-input BYTES] [file|-]"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Decode, re-encode canonically, and compare bytes to verify canonical form."); err != nil {
		return err
	}
	return writeLine(stderr, "  --quiet  Suppress success messages")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
