package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hsl/internal/diag"
	"hsl/internal/driver"
	"hsl/internal/source"
	"hsl/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.hsl|dir>...",
	Short: "Report lexical, syntax and resolution errors without running",
	Long: `Check analyzes scripts without executing them. Directories are walked for
*.hsl files and checked in parallel; results are cached on disk by content.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	checkCmd.Flags().IntP("jobs", "j", 0, "parallel workers for directories (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the check cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the check cache before checking")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readDiagFormat(formatStr)
	if err != nil {
		return err
	}

	failed := false
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return err
		}
		var ok bool
		if st.IsDir() {
			ok, err = checkDirectory(cmd, arg, format)
		} else {
			ok, err = checkFile(cmd, arg, format)
		}
		if err != nil {
			return err
		}
		failed = failed || !ok
	}
	if failed {
		return errReported
	}
	return nil
}

func checkFile(cmd *cobra.Command, path string, format diagFormat) (bool, error) {
	res, err := driver.CheckFile(cmd.Context(), path, current.opts)
	if err != nil {
		return false, err
	}
	printTimings(res.Timing)
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, res.FileSet, format); err != nil {
		return false, err
	}
	return !res.Bag.HasErrors(), nil
}

func checkDirectory(cmd *cobra.Command, dir string, format diagFormat) (bool, error) {
	dirOpts, err := directoryOptions(cmd)
	if err != nil {
		return false, err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return false, err
	}

	var (
		fs      *source.FileSet
		results []driver.CheckDirResult
	)
	if shouldUseTUI(mode) && format != diagJSON {
		fs, results, err = checkWithProgress(cmd.Context(), dir, dirOpts)
	} else {
		fs, results, err = driver.CheckDir(cmd.Context(), dir, current.opts, dirOpts)
	}
	if err != nil {
		return false, err
	}

	// одна общая сумка, чтобы JSON-вывод был одним документом
	merged := diag.NewBag(current.opts.MaxDiagnostics)
	for _, r := range results {
		merged.Merge(r.Bag)
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), merged, fs, format); err != nil {
		return false, err
	}
	return !merged.HasErrors(), nil
}

func directoryOptions(cmd *cobra.Command) (driver.DirOptions, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return driver.DirOptions{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return driver.DirOptions{}, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return driver.DirOptions{}, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	opts := driver.DirOptions{Jobs: jobs}
	if noCache {
		return opts, nil
	}
	cache, err := driver.OpenDiskCache("hsl")
	if err != nil {
		// без кеша проверка всё равно работает
		fmt.Fprintf(os.Stderr, "warning: check cache disabled: %v\n", err)
		return opts, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return opts, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	opts.Cache = cache
	return opts, nil
}

func checkWithProgress(ctx context.Context, dir string, dirOpts driver.DirOptions) (*source.FileSet, []driver.CheckDirResult, error) {
	files, err := driver.ListScripts(dir)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.CheckEvent, len(files))
	dirOpts.Progress = events

	type outcome struct {
		fs      *source.FileSet
		results []driver.CheckDirResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		fs, results, err := driver.CheckDir(ctx, dir, current.opts, dirOpts)
		close(events)
		done <- outcome{fs, results, err}
	}()

	names := slices.Clone(files)
	for i, f := range names {
		if rel, err := filepath.Rel(dir, f); err == nil {
			names[i] = rel
		}
	}
	relEvents := make(chan driver.CheckEvent, len(files))
	go func() {
		defer close(relEvents)
		for ev := range events {
			if rel, err := filepath.Rel(dir, ev.File); err == nil {
				ev.File = rel
			}
			relEvents <- ev
		}
	}()

	model := ui.NewProgressModel("checking "+dir, names, relEvents)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run(); err != nil {
		// UI упал, но проверка продолжается; дочитываем события
		for range relEvents {
		}
	}
	out := <-done
	return out.fs, out.results, out.err
}
