package bill

import "log/slog"

// Stage identifies a step of the extraction pipeline.
type Stage string

const (
	StagePreprocessing Stage = "preprocessing"
	StageExtracting    Stage = "extracting"
	StageValidating    Stage = "validating"
	StageComplete      Stage = "complete"
	StageFailed        Stage = "failed"
)

// Event is a progress notification from an extraction worker. A terminal
// event carries either the extraction results (the full report plus the
// validated fields) or the error, never both.
type Event struct {
	Stage   Stage
	Percent int
	Status  string
	Report  Report
	Info    Info
	Err     error
}

// Terminal reports whether the event ends the run.
func (e Event) Terminal() bool {
	return e.Stage == StageComplete || e.Stage == StageFailed
}

// TextResolver produces raw text from a bill file path.
type TextResolver interface {
	Resolve(path string) (string, error)
}

// Service runs the extraction pipeline.
type Service struct {
	resolver TextResolver
}

// NewService creates a new Service
func NewService(resolver TextResolver) *Service {
	return &Service{resolver: resolver}
}

// Extract processes the bill at path on a background worker and returns its
// event stream. The channel is buffered for the longest possible event
// sequence so the worker never blocks on a slow or absent consumer, and it
// is closed after the terminal event. Concurrent calls get independent
// workers sharing nothing but the read-only pattern table.
func (s *Service) Extract(path string) <-chan Event {
	events := make(chan Event, 4)
	go s.run(path, events)
	return events
}

func (s *Service) run(path string, events chan<- Event) {
	defer close(events)

	events <- Event{Stage: StagePreprocessing, Percent: 10, Status: "Preprocessing document..."}
	text, err := s.resolver.Resolve(path)
	if err != nil {
		s.fail(events, path, err)
		return
	}

	events <- Event{Stage: StageExtracting, Percent: 40, Status: "Extracting information..."}
	report := Extract(text)

	events <- Event{Stage: StageValidating, Percent: 70, Status: "Validating extracted information..."}
	info := Validate(report)

	events <- Event{Stage: StageComplete, Percent: 100, Status: "Extraction complete!", Report: report, Info: info}
}

// fail converts a stage error into the terminal event. Output from earlier
// stages is discarded; the caller sees only the failure status.
func (s *Service) fail(events chan<- Event, path string, err error) {
	slog.Error("Extraction failed", "path", path, "error", err)
	events <- Event{Stage: StageFailed, Percent: 100, Status: "Error: " + err.Error(), Err: err}
}
