package model

// JobOutcomes holds the per-job results parsed from one CI report comment.
// A job absent from both sets was not mentioned (or was non-voting); absence
// is neither a success nor a failure.
type JobOutcomes struct {
	Successes map[string]bool
	Failures  map[string]bool
}

// NewJobOutcomes returns an empty JobOutcomes with both sets allocated.
func NewJobOutcomes() JobOutcomes {
	return JobOutcomes{
		Successes: make(map[string]bool),
		Failures:  make(map[string]bool),
	}
}

// Empty reports whether the report yielded no job lines at all. Downstream
// treats this as "no usable signal".
func (o JobOutcomes) Empty() bool {
	return len(o.Successes) == 0 && len(o.Failures) == 0
}
