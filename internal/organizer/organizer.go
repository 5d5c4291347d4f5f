package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"labeler/internal/fileutil"
	"labeler/internal/labels"
	"labeler/internal/logging"
	"labeler/internal/preflight"
	"labeler/internal/services"
	"labeler/internal/store"
	"labeler/internal/textutil"
)

// Mode selects whether source files stay in place.
type Mode int

const (
	ModeMove Mode = iota
	ModeCopy
)

func (m Mode) String() string {
	if m == ModeCopy {
		return "copy"
	}
	return "move"
}

// Options controls a single Organize run.
type Options struct {
	SourceDir string
	DestDir   string
	Mode      Mode
	// ContinueOnError keeps processing after a file fails.
	ContinueOnError bool
	VerifyCopies    bool
	CheckFreeSpace  bool
	// Progress, when set, is called after every file.
	Progress func(Progress)
}

// Progress describes how far a run has come.
type Progress struct {
	Done  int
	Total int
	Name  string
}

// Result is the outcome for one document entry.
type Result struct {
	Name   string
	Label  labels.Value
	Target string
	Bytes  int64
	// InPlace is set when the source already is the target file, so
	// nothing was transferred.
	InPlace bool
	Err     error
}

// Report lists per-file outcomes in document order.
type Report struct {
	Mode    Mode
	Results []Result
}

// Succeeded returns the number of files transferred.
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failures returns the results that carry an error.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Bytes sums the sizes of transferred files.
func (r Report) Bytes() int64 {
	var total int64
	for _, res := range r.Results {
		if res.Err == nil {
			total += res.Bytes
		}
	}
	return total
}

// Organizer copies or moves labeled files.
type Organizer struct {
	logger *slog.Logger
}

// New constructs an Organizer.
func New(logger *slog.Logger) *Organizer {
	return &Organizer{logger: logging.NewComponentLogger(logger, "organizer")}
}

// Organize transfers every entry of doc from opts.SourceDir into
// opts.DestDir/<label>/. The returned error joins every per-file failure;
// the Report is valid even when an error is returned.
func (o *Organizer) Organize(ctx context.Context, doc store.Document, opts Options) (Report, error) {
	logger := logging.WithContext(ctx, o.logger)
	report := Report{Mode: opts.Mode}

	if err := o.preflight(doc, opts); err != nil {
		return report, err
	}

	entries := doc.Entries()
	logger.Info("organizing annotated files",
		logging.String("source_dir", opts.SourceDir),
		logging.String("dest_dir", opts.DestDir),
		logging.String("mode", opts.Mode.String()),
		logging.Int("file_count", len(entries)),
	)

	var errs []error
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res := o.transfer(entry, opts)
		report.Results = append(report.Results, res)
		if opts.Progress != nil {
			opts.Progress(Progress{Done: i + 1, Total: len(entries), Name: entry.Key})
		}
		if res.Err != nil {
			logging.WarnWithContext(logging.WithContext(services.WithItemIndex(ctx, i), o.logger), "file not organized", "organize_file_failed",
				logging.Item(entry.Key),
				logging.Label(entry.Label),
				logging.Error(res.Err),
				logging.String(logging.FieldImpact, "file left out of the label directories"),
				logging.String(logging.FieldErrorHint, "check the file exists in the source directory"),
			)
			errs = append(errs, res.Err)
			if !opts.ContinueOnError {
				break
			}
			continue
		}
		logger.Debug("file organized",
			logging.Item(entry.Key),
			logging.String("target", res.Target),
			logging.Bool("in_place", res.InPlace),
		)
	}

	logger.Info("organization finished",
		logging.Int("succeeded", report.Succeeded()),
		logging.Int("failed", len(report.Failures())),
		logging.String("transferred", humanize.IBytes(uint64(report.Bytes()))),
	)
	return report, errors.Join(errs...)
}

func (o *Organizer) transfer(entry store.Entry, opts Options) Result {
	res := Result{Name: entry.Key, Label: entry.Label}
	if !filepath.IsLocal(entry.Key) {
		res.Err = services.Wrap(services.ErrValidation, "organizer", "resolve source",
			fmt.Sprintf("%q escapes the source directory", entry.Key), nil)
		return res
	}

	src := filepath.Join(opts.SourceDir, entry.Key)
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Err = services.Wrap(services.ErrSourceNotFound, "organizer", "transfer",
				fmt.Sprintf("%s not found in %s", entry.Key, opts.SourceDir), err)
		} else {
			res.Err = services.Wrap(services.ErrTransient, "organizer", "transfer", entry.Key, err)
		}
		return res
	}
	if info.IsDir() {
		res.Err = services.Wrap(services.ErrValidation, "organizer", "transfer",
			fmt.Sprintf("%s is a directory", entry.Key), nil)
		return res
	}
	res.Bytes = info.Size()

	res.Target = filepath.Join(opts.DestDir, textutil.LabelDirName(entry.Label.String()), entry.Key)
	if existing, err := os.Stat(res.Target); err == nil && os.SameFile(info, existing) {
		res.InPlace = true
		return res
	}
	if err := os.MkdirAll(filepath.Dir(res.Target), 0o755); err != nil {
		res.Err = services.Wrap(services.ErrTransient, "organizer", "create label directory", filepath.Dir(res.Target), err)
		return res
	}

	switch opts.Mode {
	case ModeCopy:
		if opts.VerifyCopies {
			err = fileutil.CopyFileVerified(src, res.Target)
		} else {
			err = fileutil.CopyFile(src, res.Target)
		}
	default:
		err = fileutil.MoveFile(src, res.Target, opts.VerifyCopies)
	}
	if err != nil {
		res.Err = services.Wrap(services.ErrTransient, "organizer", opts.Mode.String(),
			fmt.Sprintf("%s -> %s", entry.Key, res.Target), err)
	}
	return res
}

func (o *Organizer) preflight(doc store.Document, opts Options) error {
	if opts.SourceDir == "" || opts.DestDir == "" {
		return services.Wrap(services.ErrConfiguration, "organizer", "preflight", "source and destination directories are required", nil)
	}
	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "organizer", "preflight", "Failed to create destination directory", err)
	}

	results := []preflight.Result{
		preflight.CheckDirectoryAccess("Source directory", opts.SourceDir, preflight.Read),
		preflight.CheckDirectoryAccess("Destination directory", opts.DestDir, preflight.ReadWrite),
	}
	if opts.Mode == ModeCopy && opts.CheckFreeSpace {
		results = append(results, preflight.CheckFreeSpace("Destination free space", opts.DestDir, requiredBytes(doc, opts.SourceDir)))
	}
	for _, r := range results {
		o.logger.Debug("preflight check",
			logging.String("check", r.Name),
			logging.Bool("passed", r.Passed),
			logging.String("detail", r.Detail),
		)
	}
	if err := preflight.Failures(results); err != nil {
		return services.Wrap(services.ErrConfiguration, "organizer", "preflight", "", err)
	}
	return nil
}

// requiredBytes sums the sizes of referenced files that exist.
func requiredBytes(doc store.Document, sourceDir string) int64 {
	var total int64
	for _, entry := range doc.Entries() {
		if !filepath.IsLocal(entry.Key) {
			continue
		}
		if info, err := os.Stat(filepath.Join(sourceDir, entry.Key)); err == nil && !info.IsDir() {
			total += info.Size()
		}
	}
	return total
}
