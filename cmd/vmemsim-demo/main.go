// Command vmemsim-demo is a thin driver program: it registers a handful
// of host variables, drives them through a lazy-zero-fault, a fork with
// copy-on-write isolation, and a sign-preserving write, and prints the
// trace stream to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/achilleasa/vmemsim/kernel/sim"
	"github.com/achilleasa/vmemsim/kernel/sim/pointer"
)

func main() {
	debug := flag.Bool("debug", false, "enable PGZERO/PGCOPY trace lines")
	flag.Parse()

	s, err := sim.Begin(sim.WithDebug(*debug), sim.WithOutput(os.Stdout))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	src := pointer.NewSource()
	logger := s.Logger()

	reportValue := func(name string, v sim.Value, ok bool) {
		if !ok {
			return
		}
		logger.Info(fmt.Sprintf("Value of %s: %d", name, v.Unsigned()))
	}

	// Lazy zero then write.
	x := src.Next("x")
	s.Register(x)
	v, ok := s.Read(x, sim.Unsigned)
	reportValue("x", v, ok)
	s.Write(x, sim.NewUnsigned(5))
	v, ok = s.Read(x, sim.Unsigned)
	reportValue("x", v, ok)

	// Fork and confirm copy-on-write isolation.
	s.Fork()
	s.Write(x, sim.NewUnsigned(6))
	v, ok = s.Read(x, sim.Unsigned)
	reportValue("x (child)", v, ok)
	s.Switch(0)
	v, ok = s.Read(x, sim.Unsigned)
	reportValue("x (parent)", v, ok)
	s.Write(x, sim.NewUnsigned(4))
	v, ok = s.Read(x, sim.Unsigned)
	reportValue("x (parent)", v, ok)

	// Sign preservation across fork.
	y := src.Next("y")
	s.Register(y)
	s.Write(y, sim.NewSigned(-1))
	s.Fork()
	s.Write(y, sim.NewSigned(-2))
	sv, sok := s.Read(y, sim.Signed)
	if sok {
		logger.Info(fmt.Sprintf("Value of y (child): %d", sv.Signed()))
	}
	s.Switch(0)
	sv, sok = s.Read(y, sim.Signed)
	if sok {
		logger.Info(fmt.Sprintf("Value of y (parent): %d", sv.Signed()))
	}

	// A duplicate register traces instead of allocating.
	s.Register(y)

	fmt.Print(s.Print())
}
