// Package export holds what the format exporters share: output
// placement, filename forming, time ranges and durable file writing.
package export

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/options"
)

var ErrNothingToExport = errors.New("there is nothing to export")
var ErrOutputWriteFailed = errors.New("output write failed")

// TimeRange is a resolved animation window.
type TimeRange struct {
	Initial float64
	Finish  float64
	Steps   int
}

// Base is embedded by every exporter.
type Base struct {
	outputTarget string
	prefix       string
	logger       *zap.Logger
	filter       *sceneport.Filter
	timeRange    *TimeRange
}

// NewBase applies the shared options; defaultPrefix is used when the
// options carry none.
func NewBase(defaultPrefix string, opts *options.ExportOptions) Base {
	b := Base{
		outputTarget: ".",
		prefix:       defaultPrefix,
		logger:       zap.NewNop(),
	}

	if opts == nil {
		return b
	}

	if opts.T != "" {
		b.outputTarget = opts.T
	}

	if opts.P != "" {
		b.prefix = opts.P
	}

	if len(opts.Patterns) > 0 {
		b.filter = sceneport.NewFilter(opts.Patterns...)
	}

	if opts.HasTime {
		steps := opts.TimeSteps
		if steps <= 0 {
			steps = 1
		}

		b.timeRange = &TimeRange{
			Initial: opts.InitialTime,
			Finish:  opts.FinishTime,
			Steps:   steps,
		}
	}

	return b
}

func (b *Base) OutputTarget() string {
	return b.outputTarget
}

// SetOutputTarget redirects the export, mirroring the optional target
// argument the Export methods accept in spirit: the last set wins.
func (b *Base) SetOutputTarget(dir string) {
	if dir != "" {
		b.outputTarget = dir
	}
}

func (b *Base) Prefix() string {
	return b.prefix
}

func (b *Base) SetLogger(l *zap.Logger) {
	if l != nil {
		b.logger = l
	}
}

func (b *Base) Logger() *zap.Logger {
	return b.logger
}

func (b *Base) Filter() *sceneport.Filter {
	return b.filter
}

func (b *Base) SetFilter(f *sceneport.Filter) {
	b.filter = f
}

// ResolveTimeRange prefers an explicitly configured range over the
// document timekeeper; nil means a static export.
func (b *Base) ResolveTimeRange(doc *sceneport.Document) *TimeRange {
	if b.timeRange != nil {
		return b.timeRange
	}

	tk := doc.Timekeeper()
	if tk == nil {
		return nil
	}

	return &TimeRange{Initial: tk.InitialTime, Finish: tk.FinishTime, Steps: tk.TimeSteps}
}

// FullFilename places name inside the output target.
func (b *Base) FullFilename(name string) string {
	return filepath.Join(b.outputTarget, name)
}

// WriteFile writes through a temp file in the target directory and
// renames into place, so a failing export never truncates the output
// of a previous run.
func (b *Base) WriteFile(name string, data []byte) error {
	if err := os.MkdirAll(b.outputTarget, 0755); err != nil {
		return errors.Wrapf(ErrOutputWriteFailed, "could not create target %s: %s", b.outputTarget, err.Error())
	}

	finalName := b.FullFilename(name)
	tmpName := finalName + ".tmp"

	tmpF, err := os.Create(tmpName)
	if err != nil {
		return errors.Wrapf(ErrOutputWriteFailed, "could not create %s: %s", tmpName, err.Error())
	}

	defer func() {
		_ = tmpF.Close()
		_ = os.RemoveAll(tmpName)
	}()

	if _, err := tmpF.Write(data); err != nil {
		return errors.Wrapf(ErrOutputWriteFailed, "could not write %s: %s", tmpName, err.Error())
	}

	if err := tmpF.Sync(); err != nil {
		return errors.Wrapf(ErrOutputWriteFailed, "could not sync %s: %s", tmpName, err.Error())
	}

	if err := tmpF.Close(); err != nil {
		return errors.Wrapf(ErrOutputWriteFailed, "could not close %s: %s", tmpName, err.Error())
	}

	if err := os.Rename(tmpName, finalName); err != nil {
		return errors.Wrapf(ErrOutputWriteFailed, "could not swap %s into place: %s", tmpName, err.Error())
	}

	b.logger.Debug("wrote export file", zap.String("file", finalName), zap.Int("bytes", len(data)))

	return nil
}
