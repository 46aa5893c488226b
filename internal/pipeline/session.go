// Package pipeline owns the application state of one verification session:
// it gates, extracts and stores sources, and runs verification over them.
package pipeline

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/ingest"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/store"
	"github.com/ppiankov/claimcheck/internal/validate"
	"github.com/ppiankov/claimcheck/internal/verify"
)

// EventKind names a session event
type EventKind string

const (
	EventFileStarted  EventKind = "file_started"
	EventFileAdded    EventKind = "file_added"
	EventFileRejected EventKind = "file_rejected"
	EventExtract      EventKind = "extract" // Extraction progress for the current file
	EventURLStarted   EventKind = "url_started"
	EventURLAdded     EventKind = "url_added"
	EventURLFailed    EventKind = "url_failed"
	EventRemoved      EventKind = "removed"
	EventVerifying    EventKind = "verifying"
)

// Event is reported to the session observer
type Event struct {
	Kind      EventKind
	Name      string // File name or URL
	Remaining int    // Files still to process in the current batch, this one included
	Stage     extract.Stage
	Backend   string
	Source    *model.Source
	Err       error
}

// Observer receives session events. It must not call back into the session.
type Observer func(Event)

// IngestResult is the outcome of one file in a batch
type IngestResult struct {
	Name   string
	Source *model.Source // nil when Err is set
	Err    error
}

// Session is the single owner of the source store. It is not safe for concurrent use.
type Session struct {
	validator    *validate.Validator
	extractor    *extract.Extractor
	fetcher      *Fetcher
	store        *store.SourceStore
	orchestrator *verify.Orchestrator
	observer     Observer
	pendingClaim string

	judge       llm.Judge
	extractOpts []extract.Option
	now         func() time.Time
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithJudge overrides the judge built from configuration
func WithJudge(j llm.Judge) SessionOption {
	return func(s *Session) { s.judge = j }
}

// WithObserver registers an event observer
func WithObserver(o Observer) SessionOption {
	return func(s *Session) { s.observer = o }
}

// WithPendingClaim records a claim delivered when the session starts
func WithPendingClaim(claim string) SessionOption {
	return func(s *Session) { s.pendingClaim = strings.TrimSpace(claim) }
}

// WithExtractOptions passes options to the content extractor
func WithExtractOptions(opts ...extract.Option) SessionOption {
	return func(s *Session) { s.extractOpts = append(s.extractOpts, opts...) }
}

// NewSession builds a session with an empty store.
// A judge that cannot be configured does not prevent ingestion; verification reports the reason.
func NewSession(cfg model.Config, opts ...SessionOption) *Session {
	s := &Session{
		validator: validate.NewValidator(cfg.Extract),
		fetcher:   NewFetcher(cfg),
		store:     store.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	progress := extract.WithProgress(func(p extract.Progress) {
		s.emit(Event{Kind: EventExtract, Name: p.Name, Stage: p.Stage, Backend: p.Backend})
	})
	s.extractor = extract.New(cfg.Extract, append([]extract.Option{progress}, s.extractOpts...)...)

	if s.judge == nil {
		judge, err := llm.NewJudge(llm.ConfigFromModel(cfg))
		if err != nil {
			log.Debug().Err(err).Msg("judge unavailable")
			judge = llm.Unavailable(err)
		}
		s.judge = judge
	}
	s.orchestrator = verify.NewOrchestrator(s.judge, cfg.Judge)

	return s
}

// AddFiles ingests files strictly one at a time, in order.
// A refused file is reported in its result and does not affect the others.
func (s *Session) AddFiles(ctx context.Context, files []model.File) []IngestResult {
	results := make([]IngestResult, 0, len(files))

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			results = append(results, IngestResult{Name: f.Name, Err: err})
			continue
		}

		s.emit(Event{Kind: EventFileStarted, Name: f.Name, Remaining: len(files) - i})

		src, err := s.addFile(ctx, f)
		if err != nil {
			s.emit(Event{Kind: EventFileRejected, Name: f.Name, Remaining: len(files) - i - 1, Err: err})
			results = append(results, IngestResult{Name: f.Name, Err: err})
			continue
		}

		s.emit(Event{Kind: EventFileAdded, Name: f.Name, Remaining: len(files) - i - 1, Source: src})
		results = append(results, IngestResult{Name: f.Name, Source: src})
	}

	return results
}

func (s *Session) addFile(ctx context.Context, f model.File) (*model.Source, error) {
	if f.Size == 0 && f.Data != nil {
		f.Size = int64(len(f.Data))
	}

	kind, err := s.validator.Validate(f)
	if err != nil {
		return nil, err
	}

	f, err = ingest.Load(f)
	if err != nil {
		return nil, err
	}

	hint := f.MediaType
	if hint == "" {
		hint = kind.String()
	}

	src := model.Source{
		ID:        uuid.NewString(),
		Origin:    model.OriginFile,
		Label:     f.Name,
		Hint:      hint,
		SizeBytes: f.Size,
		Kind:      kind,
		Content:   s.extractor.Extract(ctx, f, kind),
		CreatedAt: s.now().UTC(),
	}
	s.store.Insert(src)
	return &src, nil
}

// AddURL fetches rawURL and stores its readable content.
// A failed fetch stores nothing.
func (s *Session) AddURL(ctx context.Context, rawURL string) (*model.Source, error) {
	rawURL = strings.TrimSpace(rawURL)
	s.emit(Event{Kind: EventURLStarted, Name: rawURL})

	page, err := s.fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		s.emit(Event{Kind: EventURLFailed, Name: rawURL, Err: err})
		return nil, err
	}

	hint := "https"
	if u, err := url.Parse(page.FinalURL); err == nil && u.Scheme != "" {
		hint = u.Scheme
	}

	src := model.Source{
		ID:        uuid.NewString(),
		Origin:    model.OriginURL,
		Label:     page.Title,
		Hint:      hint,
		URL:       page.FinalURL,
		Content:   page.Content,
		CreatedAt: s.now().UTC(),
	}
	s.store.Insert(src)

	s.emit(Event{Kind: EventURLAdded, Name: rawURL, Source: &src})
	return &src, nil
}

// Remove deletes the source at a combined index (files first, then URLs)
func (s *Session) Remove(index int) (model.Source, bool) {
	src, ok := s.store.RemoveAt(index)
	if ok {
		s.emit(Event{Kind: EventRemoved, Name: src.Label, Source: &src})
	}
	return src, ok
}

// Sources returns the current combined view
func (s *Session) Sources() []model.Source {
	return s.store.Snapshot()
}

// Counts returns the number of file and URL sources
func (s *Session) Counts() (files, urls int) {
	return s.store.Counts()
}

// Verify asks the judge about claim against the sources present now.
// EventVerifying is emitted only once a judge request will actually be made.
func (s *Session) Verify(ctx context.Context, claim string) (*model.Verdict, error) {
	sources := s.store.Snapshot()
	if err := verify.Ready(claim, sources); err != nil {
		return nil, err
	}
	s.emit(Event{Kind: EventVerifying, Name: s.judge.Name()})
	return s.orchestrator.Verify(ctx, claim, sources)
}

// PendingClaim returns the claim delivered at start, if any
func (s *Session) PendingClaim() string {
	return s.pendingClaim
}

// Judge returns the judge in use
func (s *Session) Judge() llm.Judge {
	return s.judge
}

func (s *Session) emit(e Event) {
	if s.observer != nil {
		s.observer(e)
	}
}
