/*
 * main.go, part of gostruct.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// chemconv converts atomic structure files between formats.
//
//	chemconv [-config f.toml] [-to fmt] [-o out | -outdir dir] [-all] [-plot hist.png] files...
//
// Outputs named *.gz or *.zst are compressed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	chem "github.com/rmera/gostruct"
	"github.com/rmera/gostruct/chemfile"
	"github.com/rmera/gostruct/chemplot"
	"github.com/rmera/gostruct/config"
	"golang.org/x/sync/errgroup"
)

type job struct {
	in, out string
	to      chemfile.Format
}

// converter holds what every conversion shares.
type converter struct {
	cfg    config.Config
	man    *chemfile.Manager
	all    bool
	logger *log.Logger
}

func main() {
	cfgFile := flag.String("config", "", "TOML configuration file")
	to := flag.String("to", "", "output format, by default taken from the output name or the configuration")
	out := flag.String("o", "", "output file, only with a single input")
	outdir := flag.String("outdir", "", "directory for the output files")
	all := flag.Bool("all", false, "write every frame of trajectories, not only the default one")
	plotFile := flag.String("plot", "", "write a bond length histogram of the first structure to this file")
	flag.Parse()
	logger := log.New(os.Stderr, "chemconv: ", 0)
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			logger.Fatal(err)
		}
	}
	if *out != "" && flag.NArg() > 1 {
		logger.Fatal("-o can only be used with a single input file")
	}
	jobs, err := plan(flag.Args(), *to, *out, *outdir, cfg.Convert.Format)
	if err != nil {
		logger.Fatal(err)
	}
	C := &converter{cfg: cfg, man: chemfile.NewManager(cfg.FileOptions(logger)), all: *all, logger: logger}
	first, err := C.run(context.Background(), jobs)
	if err != nil {
		logger.Fatal(err)
	}
	if *plotFile != "" {
		err := chemplot.BondHistogram(first, cfg.BondOptions(), cfg.Convert.Bins, first.Name, *plotFile)
		if err != nil {
			logger.Fatal(err)
		}
	}
}

// plan decides the output name and format of every input.
func plan(inputs []string, to, out, outdir, fallback string) ([]job, error) {
	def, err := chemfile.ParseFormat(fallback)
	if err != nil {
		return nil, err
	}
	if to != "" {
		if def, err = chemfile.ParseFormat(to); err != nil {
			return nil, err
		}
	} else if out != "" {
		def = chemfile.ResolveFormat(out, def)
	}
	ret := make([]job, 0, len(inputs))
	for _, in := range inputs {
		J := job{in: in, out: out, to: def}
		if J.out == "" {
			J.out = outputName(in, def)
			if outdir != "" {
				J.out = filepath.Join(outdir, filepath.Base(J.out))
			}
		}
		if filepath.Clean(J.out) == filepath.Clean(in) {
			return nil, fmt.Errorf("%s would be overwritten by its own conversion", in)
		}
		ret = append(ret, J)
	}
	return ret, nil
}

// outputName replaces the extension of in with the first one of f.
func outputName(in string, f chemfile.Format) string {
	base := in
	for _, suffix := range []string{".gz", ".zst"} {
		base = strings.TrimSuffix(base, suffix)
	}
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + f.Extensions()[0]
}

// run converts all jobs, at most cfg.Convert.Jobs at a time, and returns the
// first structure of the first input.
func (C *converter) run(ctx context.Context, jobs []job) (*chem.Structure, error) {
	firsts := make([]*chem.Structure, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(C.cfg.Convert.Jobs)
	for i, J := range jobs {
		i, J := i, J
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			S, err := C.convert(J)
			if err != nil {
				return fmt.Errorf("%s: %w", J.in, err)
			}
			firsts[i] = S
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return firsts[0], nil
}

func (C *converter) convert(J job) (*chem.Structure, error) {
	data, err := os.ReadFile(J.in)
	if err != nil {
		return nil, err
	}
	frames, err := C.man.LoadStructures(J.in, string(data))
	if err != nil {
		return nil, err
	}
	in := C.man.ResolveFormat(J.in, chemfile.Unknown)
	if !C.all {
		frames = []*chem.Structure{chemfile.DefaultFrame(frames, in)}
	}
	text, err := C.man.SaveStructures(frames, J.to)
	if err != nil {
		return nil, err
	}
	raw, err := chemfile.Compress([]byte(text), J.out)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(J.out, raw, 0o644); err != nil {
		return nil, err
	}
	C.report(J, frames)
	return frames[0], nil
}

// report logs one line per output and the bond statistics of its first frame.
func (C *converter) report(J job, frames []*chem.Structure) {
	S := frames[0]
	var b strings.Builder
	com := chem.CenterOfMass(S)
	fmt.Fprintf(&b, "%s -> %s (%s): %s, %d atoms, %d frame(s), center of mass %.4f %.4f %.4f\n", J.in, J.out, J.to, S.Formula(), S.Len(), len(frames), com.X, com.Y, com.Z)
	for _, st := range chemplot.Stats(S, C.cfg.BondOptions()) {
		fmt.Fprintf(&b, "  %v\n", st)
	}
	C.logger.Print(b.String())
}
