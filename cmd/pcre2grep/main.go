// Command pcre2grep is a line-oriented grep over this module's PCRE2-style
// engine, the test-harness CLI spec §6.5 describes summarized and restated
// as a real standalone tool instead of a data-driven test driver: one
// pattern argument, one or more file arguments (or stdin), flags mirroring
// pcre2grep's own -i/-v/-c/-n/-l/-o/-M.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/gopcre/pcre2/internal/pcre2log"
	"github.com/gopcre/pcre2/pcre2"
)

var logger *slog.Logger

func main() {
	optCaseless := getopt.BoolLong("ignore-case", 'i', "Caseless match")
	optInvert := getopt.BoolLong("invert-match", 'v', "Select non-matching lines")
	optCount := getopt.BoolLong("count", 'c', "Print only a count of matching lines per file")
	optLineNum := getopt.BoolLong("line-number", 'n', "Print line number with output lines")
	optFilesOnly := getopt.BoolLong("files-with-matches", 'l', "Print only filenames with at least one match")
	optOnly := getopt.BoolLong("only-matching", 'o', "Print only the matched part of each line")
	optMultiline := getopt.BoolLong("multiline", 'M', "PCRE2_MULTILINE: ^ and $ also match at internal newlines (input is still matched line by line)")
	optExtended := getopt.BoolLong("extended", 'x', "PCRE2_EXTENDED: ignore whitespace and # comments in the pattern")
	optLogFile := getopt.StringLong("log", 0, "", "Write diagnostics to this file in addition to stderr")
	optDebug := getopt.BoolLong("debug", 0, "Verbose diagnostic logging")
	optHelp := getopt.BoolLong("help", 'h', "Show usage")

	getopt.Parse()
	args := getopt.Args()

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pcre2grep:", err)
			os.Exit(2)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	if *optDebug {
		programLevel.Set(slog.LevelDebug)
	}
	logger = slog.New(pcre2log.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(logger)

	if *optHelp || len(args) < 1 {
		getopt.Usage()
		os.Exit(2)
	}

	pattern := args[0]
	files := args[1:]

	var bits uint32
	if *optCaseless {
		bits |= pcre2.Caseless
	}
	if *optMultiline {
		bits |= pcre2.Multiline
	}
	if *optExtended {
		bits |= pcre2.Extended
	}

	re, err := pcre2.Compile(pattern, bits)
	if err != nil {
		logger.Error("failed to compile pattern", "pattern", pattern, "error", err.Error())
		os.Exit(2)
	}

	anyMatch := false
	exitStatus := 1

	if len(files) == 0 {
		if grepReader(re, "(standard input)", os.Stdin, *optInvert, *optCount, *optLineNum, *optFilesOnly, *optOnly, len(files) > 1) {
			anyMatch = true
		}
	} else {
		for _, name := range files {
			f, err := os.Open(name)
			if err != nil {
				logger.Error("cannot open file", "file", name, "error", err.Error())
				continue
			}
			if grepReader(re, name, f, *optInvert, *optCount, *optLineNum, *optFilesOnly, *optOnly, len(files) > 1) {
				anyMatch = true
			}
			f.Close()
		}
	}

	if anyMatch {
		exitStatus = 0
	}
	os.Exit(exitStatus)
}

// grepReader scans r line by line (or, under optMultiline's caller-held
// contract, still line by line — this tool never loads a whole file as one
// subject, keeping memory bounded the way pcre2grep's own line buffer does)
// and reports whether at least one line matched.
func grepReader(re *pcre2.Regexp, name string, r io.Reader, invert, count, lineNum, filesOnly, onlyMatching, showName bool) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	matched := false
	n := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		hit := re.Match(line)
		if hit == invert {
			continue
		}
		matched = true
		n++

		if filesOnly {
			fmt.Println(name)
			return true
		}
		if count {
			continue
		}

		prefix := ""
		if showName {
			prefix += name + ":"
		}
		if lineNum {
			prefix += fmt.Sprintf("%d:", lineNo)
		}

		if onlyMatching && !invert {
			for _, m := range re.FindAllString(line, -1) {
				fmt.Println(prefix + m)
			}
			continue
		}
		fmt.Println(prefix + line)
	}

	if err := scanner.Err(); err != nil {
		logger.Error("error reading input", "file", name, "error", err.Error())
	}

	if count {
		prefix := ""
		if showName {
			prefix = name + ":"
		}
		fmt.Printf("%s%d\n", prefix, n)
	}

	return matched
}
