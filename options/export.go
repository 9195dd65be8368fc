package options

// ExportOptions carries the settings shared by every exporter. The
// zero value exports to the working directory with the format's
// default prefix.
type ExportOptions struct {
	T        string
	P        string
	Patterns []string

	InitialTime float64
	FinishTime  float64
	TimeSteps   int
	HasTime     bool
}

func (eo *ExportOptions) Target(dir string) *ExportOptions {
	eo.T = dir
	return eo
}

func (eo *ExportOptions) Prefix(p string) *ExportOptions {
	eo.P = p
	return eo
}

// Filter adds colon segmented name patterns; graphics matching none of
// them are skipped.
func (eo *ExportOptions) Filter(patterns ...string) *ExportOptions {
	eo.Patterns = append(eo.Patterns, patterns...)
	return eo
}

// TimeRange overrides the document timekeeper.
func (eo *ExportOptions) TimeRange(initial, finish float64, steps int) *ExportOptions {
	eo.InitialTime = initial
	eo.FinishTime = finish
	eo.TimeSteps = steps
	eo.HasTime = true
	return eo
}

func Export() *ExportOptions {
	return &ExportOptions{}
}
