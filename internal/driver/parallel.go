package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"hsl/internal/diag"
	"hsl/internal/source"
	"hsl/internal/trace"
)

// ScriptExt is the extension CheckDir looks for.
const ScriptExt = ".hsl"

// CheckDirResult содержит результат проверки одного файла
type CheckDirResult struct {
	Path   string        // путь к файлу
	FileID source.FileID // ID файла в FileSet
	Bag    *diag.Bag     // диагностики
	Cached bool          // результат взят из DiskCache
}

// CheckStatus is the state of one file in a directory check.
type CheckStatus uint8

const (
	CheckWorking CheckStatus = iota + 1
	CheckClean
	CheckFailed
	CheckCached
)

func (s CheckStatus) String() string {
	switch s {
	case CheckWorking:
		return "checking"
	case CheckClean:
		return "ok"
	case CheckFailed:
		return "error"
	case CheckCached:
		return "cached"
	}
	return "queued"
}

// CheckEvent reports progress of CheckDir.
type CheckEvent struct {
	File   string
	Status CheckStatus
}

// DirOptions tunes CheckDir. Progress, if set, receives one CheckWorking
// and one final event per file; CheckDir never closes it.
type DirOptions struct {
	Jobs     int
	Cache    *DiskCache
	Progress chan<- CheckEvent
}

func (o DirOptions) emit(ctx context.Context, path string, status CheckStatus) {
	if o.Progress == nil {
		return
	}
	select {
	case o.Progress <- CheckEvent{File: path, Status: status}:
	case <-ctx.Done():
	}
}

// ListScripts возвращает отсортированный список всех *.hsl файлов в директории
func ListScripts(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ScriptExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every script under dir in parallel. Files are loaded
// up front so workers only read the FileSet. A non-nil cache skips files
// whose content and options were checked before.
func CheckDir(ctx context.Context, dir string, opts Options, dirOpts DirOptions) (*source.FileSet, []CheckDirResult, error) {
	files, err := ListScripts(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check-dir", trace.Parent(ctx))
	defer span.End("")
	ctx = trace.WithParent(ctx, span.ID())

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностика указывала на путь
			loadErrors[path] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = id
	}

	jobs := dirOpts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]CheckDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			dirOpts.emit(gctx, path, CheckWorking)
			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(1)
				bag.Add(diag.NewError(diag.UnknownCode, source.Span{File: fileIDs[path]}, "failed to load file: "+loadErr.Error()))
				results[i] = CheckDirResult{Path: path, FileID: fileIDs[path], Bag: bag}
				dirOpts.emit(gctx, path, CheckFailed)
				return nil
			}
			res := checkOne(gctx, fileSet, fileIDs[path], path, opts, dirOpts.Cache)
			results[i] = res
			dirOpts.emit(gctx, path, res.status())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))
	return fileSet, results, nil
}

func (r CheckDirResult) status() CheckStatus {
	switch {
	case r.Bag.HasErrors():
		return CheckFailed
	case r.Cached:
		return CheckCached
	}
	return CheckClean
}

func checkOne(ctx context.Context, fileSet *source.FileSet, id source.FileID, path string, opts Options, cache *DiskCache) CheckDirResult {
	file := fileSet.Get(id)
	key := checkKey(Digest(file.Hash), opts)
	var payload DiskPayload
	if hit, err := cache.Get(key, &payload); err == nil && hit {
		return CheckDirResult{Path: path, FileID: id, Bag: payload.restore(id, opts.maxDiagnostics()), Cached: true}
	}
	// ошибки записи кеша не влияют на результат проверки
	res := Check(ctx, fileSet, id, opts)
	_ = cache.Put(key, toDiskPayload(path, Digest(file.Hash), res.Bag.Items()))
	return CheckDirResult{Path: path, FileID: id, Bag: res.Bag}
}
