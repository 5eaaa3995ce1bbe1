// Package prof wires the --cpuprofile, --memprofile and --runtime-trace
// flags of the CLI to runtime/pprof and runtime/trace.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the output files; empty paths are skipped.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Enabled reports whether any profile was requested.
func (o Options) Enabled() bool {
	return o.CPU != "" || o.Mem != "" || o.Trace != ""
}

// Start begins the requested profiles. The returned stop function ends them
// and writes the heap profile; it must be called exactly once.
func Start(opts Options) (stop func() error, err error) {
	var cpu, tr *os.File
	cleanup := func() {
		if cpu != nil {
			pprof.StopCPUProfile()
			_ = cpu.Close()
		}
		if tr != nil {
			trace.Stop()
			_ = tr.Close()
		}
	}

	if opts.CPU != "" {
		if cpu, err = startCPU(opts.CPU); err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}
	if opts.Trace != "" {
		if tr, err = startTrace(opts.Trace); err != nil {
			cleanup()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
	}

	return func() error {
		var errs []error
		if cpu != nil {
			pprof.StopCPUProfile()
			errs = append(errs, cpu.Close())
		}
		if tr != nil {
			trace.Stop()
			errs = append(errs, tr.Close())
		}
		if opts.Mem != "" {
			if err := writeMem(opts.Mem); err != nil {
				errs = append(errs, fmt.Errorf("heap profile: %w", err))
			}
		}
		return errors.Join(errs...)
	}, nil
}

func startCPU(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func startTrace(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// writeMem captures a heap profile after a forced GC.
func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
