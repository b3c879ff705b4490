package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/sheet"
)

// DefaultFetchTimeout bounds a single read of the row source.
const DefaultFetchTimeout = 30 * time.Second

// Options tunes a Service. Non-positive durations and limits fall back to
// the package defaults.
type Options struct {
	Target        int
	FetchTimeout  time.Duration
	MaxConcurrent int
	MaxWait       time.Duration
}

// Service answers dashboard and lookup queries. Every call re-reads the
// worksheet, so results always reflect the current spreadsheet. Calls that
// arrive while a read is in flight share that read.
type Service struct {
	source  sheet.Source
	limiter *FetchLimiter
	timeout time.Duration
	target  int
	reads   singleflight.Group
}

// NewService creates a Service reading rows from source.
func NewService(source sheet.Source, opts Options) *Service {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		source:  source,
		limiter: NewFetchLimiter(opts.MaxConcurrent, opts.MaxWait),
		timeout: opts.FetchTimeout,
		target:  opts.Target,
	}
}

// Target returns the enrollment goal used for the completion ratio.
func (s *Service) Target() int {
	return s.target
}

// Summary fetches the worksheet and computes the dashboard.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	summary := Summarize(rows, s.target)

	logging.FromContext(ctx).Debug("summary computed",
		"total_alunos", summary.KPIs.TotalStudents,
		"total_estados", summary.KPIs.TotalStates,
	)
	return summary, nil
}

// Certificates fetches the worksheet and returns the rows whose name
// contains name. An empty name is rejected before any fetch.
func (s *Service) Certificates(ctx context.Context, name string) (*CertificateResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &Error{Kind: KindValidation, Err: ErrMissingName}
	}

	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	return FindCertificates(FromGrid(rows), name)
}

// Spreadsheet lists the tabs of the source spreadsheet.
func (s *Service) Spreadsheet(ctx context.Context) (sheet.Spreadsheet, error) {
	var meta sheet.Spreadsheet
	err := s.withSlot(ctx, "list worksheets", func(ctx context.Context) error {
		var err error
		meta, err = s.source.Spreadsheet(ctx)
		return err
	})
	return meta, err
}

// LimiterStatus reports fetch slot usage.
func (s *Service) LimiterStatus() FetchLimiterStatus {
	return s.limiter.Status()
}

// WaitForFetches blocks until in-flight fetches finish or ctx is done.
func (s *Service) WaitForFetches(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// fetch reads the configured worksheet. The read itself is detached from
// ctx so that a caller giving up does not fail the others sharing it; ctx
// only bounds how long this caller waits.
func (s *Service) fetch(ctx context.Context) ([][]string, error) {
	ch := s.reads.DoChan("rows", func() (any, error) {
		var rows [][]string
		err := s.withSlot(context.WithoutCancel(ctx), "read worksheet", func(ctx context.Context) error {
			var err error
			rows, err = s.source.Rows(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		logging.WithFields(ctx, "worksheet", s.source.Worksheet()).Info("rows downloaded", "rows", max(len(rows)-1, 0))
		return rows, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.FromContext(ctx).Debug("joined in-flight worksheet read")
		}
		return res.Val.([][]string), nil
	case <-ctx.Done():
		return nil, &Error{Kind: KindTransport, Op: "read worksheet", Err: ctx.Err(), Transient: true}
	}
}

// withSlot runs fn holding a fetch slot and under the fetch timeout.
// Failures come back as KindTransport errors.
func (s *Service) withSlot(ctx context.Context, op string, fn func(context.Context) error) error {
	log := logging.WithFields(ctx, "worksheet", s.source.Worksheet())

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("fetch slot unavailable", "error", err)
		return &Error{Kind: KindTransport, Op: op, Err: err, Transient: true}
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	log.Debug(op)

	if err := fn(ctx); err != nil {
		log.Error(op+" failed", "error", err, "elapsed", time.Since(start))
		return &Error{
			Kind:      KindTransport,
			Op:        op,
			Err:       err,
			Transient: errors.Is(err, context.DeadlineExceeded),
		}
	}

	log.Info(op+" done", "elapsed", time.Since(start))
	return nil
}
