package productview

type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	// Superseded means a newer request started before this one completed;
	// its response was discarded.
	Superseded
	// Skipped means the operation never ran, e.g. related products after a
	// failed product fetch.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Superseded:
		return "superseded"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

type Result struct {
	Outcome Outcome
	Err     error
}

func (r Result) OK() bool {
	return r.Outcome == Succeeded
}

func succeeded() Result {
	return Result{Outcome: Succeeded}
}

func failed(err error) Result {
	return Result{Outcome: Failed, Err: err}
}

type LoadResult struct {
	Product Result
	Related Result
}
