// Copyright (c) 2010, Andrei Vieru. All rights reserved.
// Copyright (c) 2021, Pedro F. Albanese. All rights reserved.
// Copyright (c) 2025: Pindorama
//	Luiz Antônio Rangel (takusuman)
// All rights reserved.
// Use of this source code is governed by a ISC license that
// can be found in the LICENSE file.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rhysdh540/nbt-compress/internal/fsutil"
	"github.com/rhysdh540/nbt-compress/internal/optimize"
	"github.com/rhysdh540/nbt-compress/internal/report"
	"github.com/spf13/pflag"
)

// cli mirrors the command-line surface one to one.
type cli struct {
	iterations int
	zopfli     bool
	level      int
	test       bool
	recursive  bool
	verbose    bool
	cores      int
	help       bool

	setIterations bool // -i was given explicitly
	files         []string
}

// flagSet binds the command-line flags to c.
func flagSet(c *cli) *pflag.FlagSet {
	flags := pflag.NewFlagSet("nbt-compress", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SortFlags = false
	flags.IntVarP(&c.iterations, "iterations", "i", 0, "force the zopfli iteration count (implies -z)")
	flags.BoolVarP(&c.zopfli, "zopfli", "z", false, "use the iterative zopfli encoder")
	flags.IntVarP(&c.level, "level", "l", 9, "fast encoder quality (0 = store, 9 = best)")
	flags.BoolVarP(&c.test, "test", "t", false, "test compressed file integrity")
	flags.BoolVarP(&c.recursive, "recursive", "r", false, "operate recursively on directories")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "be verbose")
	flags.IntVar(&c.cores, "cores", 1, "number of files to process in parallel (0 = all cores)")
	flags.BoolVarP(&c.help, "help", "h", false, "print this help message")
	return flags
}

// usage displays program usage instructions.
func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: nbt-compress [OPTION]... FILE...\n")
	fmt.Fprintf(w, "Recompress gzip FILEs in place; a file is overwritten only when it gets smaller.\n\n")
	var c cli
	fmt.Fprint(w, flagSet(&c).FlagUsages())
}

// exit shows an argument error with the usage text and exits the
// program with error code.
func exit(msg string) {
	fmt.Fprintf(os.Stderr, "nbt-compress: %s\n\n", msg)
	usage(os.Stderr)
	os.Exit(1)
}

// parseArgs turns the raw argument list into a validated cli. The
// returned cli is unvalidated when help was requested, since the
// caller short-circuits to the usage text.
func parseArgs(args []string) (*cli, error) {
	c := &cli{}
	flags := flagSet(c)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	c.files = flags.Args()
	c.setIterations = flags.Changed("iterations")

	if c.help {
		return c, nil
	}
	if c.setIterations {
		if c.iterations < 1 {
			return nil, fmt.Errorf("invalid iteration count: %d", c.iterations)
		}
		c.zopfli = true // -i implies the iterative encoder
	}
	if c.level < 0 || c.level > 9 {
		return nil, fmt.Errorf("invalid compression level: %d (must be between 0 and 9)", c.level)
	}
	if c.cores < 0 {
		return nil, fmt.Errorf("invalid number of cores: %d", c.cores)
	}
	if c.cores == 0 {
		c.cores = runtime.NumCPU()
	}
	return c, nil
}

// optimizeOptions translates the parsed flags into pipeline options.
func (c *cli) optimizeOptions() optimize.Options {
	opts := optimize.Options{Zopfli: c.zopfli, Level: c.level}
	if c.setIterations {
		n := c.iterations
		opts.Iterations = &n
	}
	return opts
}

// gatherFiles expands the argument list into the files to process.
// Directory arguments need -r and are walked for files carrying the
// gzip signature; explicitly named files are always attempted.
func gatherFiles(c *cli, rep *report.Reporter) []string {
	var files []string
	for _, arg := range c.files {
		info, err := os.Stat(arg)
		if err != nil {
			rep.Failure(&optimize.FileError{Op: optimize.OpRead, Path: arg, Err: err})
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		if !c.recursive {
			rep.Failure(fmt.Errorf("%s is a directory (use -r to process recursively)", arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				rep.Failure(&optimize.FileError{Op: optimize.OpRead, Path: path, Err: err})
				return nil
			}
			if d.Type().IsRegular() && fsutil.LooksLikeGzip(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			rep.Failure(&optimize.FileError{Op: optimize.OpRead, Path: arg, Err: err})
		}
	}
	return files
}

// processFile runs one file through the pipeline, or through the
// integrity test under -t.
func processFile(c *cli, path string, rep *report.Reporter) {
	if c.test {
		if err := optimize.Verify(path); err != nil {
			rep.Failure(err)
			return
		}
		rep.OK(path)
		return
	}
	res, err := optimize.File(path, c.optimizeOptions())
	if err != nil {
		rep.Failure(err)
		return
	}
	rep.File(res)
}

// run processes every gathered file, in argument order when
// sequential, through a bounded worker pool otherwise.
func run(c *cli, rep *report.Reporter) {
	files := gatherFiles(c, rep)

	if c.cores > 1 && len(files) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, c.cores)
		for _, file := range files {
			file := file
			wg.Add(1)
			go func() {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				processFile(c, file, rep)
			}()
		}
		wg.Wait()
	} else {
		for _, file := range files {
			processFile(c, file, rep)
		}
	}

	if len(files) > 1 && !c.test {
		rep.Summary()
	}
}

// main is the program's entry point.
func main() {
	c, err := parseArgs(os.Args[1:])
	if err != nil {
		exit(err.Error())
	}
	if c.help {
		usage(os.Stdout)
		return
	}
	if len(c.files) == 0 {
		usage(os.Stderr)
		os.Exit(1)
	}

	rep := report.New(os.Stdout, os.Stderr, c.verbose)
	run(c, rep)
}
