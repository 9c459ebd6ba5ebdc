package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	harvesterrors "github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/observability"
	"github.com/matzehuels/harvester/pkg/store"
)

// KeywordSink adds newly observed terms to the keyword pool.
type KeywordSink struct {
	keywords store.Keywords
	stamper  *Stamper
	source   model.Source
	logger   *log.Logger
}

// NewKeywordSink creates a sink writing to keywords. A nil stamper selects
// [DefaultStamper]; a nil logger selects log.Default().
func NewKeywordSink(keywords store.Keywords, source model.Source, stamper *Stamper, logger *log.Logger) *KeywordSink {
	if stamper == nil {
		stamper = DefaultStamper()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &KeywordSink{keywords: keywords, stamper: stamper, source: source, logger: logger}
}

// Ingest stores every value not yet in the pool and returns how many were
// added. Values are trimmed; blank and invalid values are skipped. An insert
// rejected as a duplicate counts as already known. A store failure skips
// only the affected value; the failures are joined into the returned error.
func (s *KeywordSink) Ingest(ctx context.Context, values []string) (int, error) {
	seen := make(map[string]struct{}, len(values))
	added := 0
	var errs []error

	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if err := harvesterrors.ValidateKeyword(value); err != nil {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		exists, err := s.keywords.Exists(ctx, value)
		if err != nil {
			s.logger.Warn("keyword lookup failed", "keyword", value, "err", err)
			errs = append(errs, fmt.Errorf("lookup keyword %q: %w", value, err))
			continue
		}
		if exists {
			continue
		}

		kw := model.Keyword{Value: value, Timestamp: s.stamper.Next()}
		if err := s.keywords.Insert(ctx, kw); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			s.logger.Warn("keyword insert failed", "keyword", value, "err", err)
			errs = append(errs, fmt.Errorf("insert keyword %q: %w", value, err))
			continue
		}
		added++
		s.logger.Debug("keyword added", "keyword", value)
		observability.Crawl().OnKeyword(ctx, s.source.String())
	}
	return added, errors.Join(errs...)
}
