package crawl

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/observability"
	"github.com/matzehuels/harvester/pkg/store"
)

// Outcome describes what [Reconciler.Reconcile] did.
type Outcome int

const (
	// Skipped means the author had no email.
	Skipped Outcome = iota
	// Created means a new author document was inserted.
	Created
	// Appended means the publication was added to an existing author.
	Appended
	// Unchanged means the author already listed a publication of that name.
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Appended:
		return "appended"
	case Unchanged:
		return "unchanged"
	default:
		return "skipped"
	}
}

const lockStripes = 64

// Reconciler merges people into the author collection.
//
// Calls for the same email are serialized within the process so that
// concurrent items naming the same author cannot both append the same
// publication.
type Reconciler struct {
	authors store.Authors
	logger  *log.Logger
	locks   [lockStripes]sync.Mutex
}

// NewReconciler creates a Reconciler writing to authors.
func NewReconciler(authors store.Authors, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{authors: authors, logger: logger}
}

// Reconcile records that author published pub. An author without email is
// skipped. A new email creates the author with pub as its only
// publication; a known email gains pub unless a publication with the same
// name is already listed. Calling Reconcile again with the same arguments
// changes nothing.
func (r *Reconciler) Reconcile(ctx context.Context, author model.Author, pub model.Publication) (Outcome, error) {
	if author.Email == "" {
		return Skipped, nil
	}

	mu := r.lock(author.Email)
	mu.Lock()
	defer mu.Unlock()

	outcome, err := r.reconcile(ctx, author, pub)
	if err != nil {
		return outcome, err
	}
	if outcome == Created || outcome == Appended {
		r.logger.Debug("author saved", "email", author.Email, "publication", pub.Name, "outcome", outcome)
		observability.Crawl().OnAuthor(ctx, pub.Source.String(), outcome == Created)
	}
	return outcome, nil
}

func (r *Reconciler) reconcile(ctx context.Context, author model.Author, pub model.Publication) (Outcome, error) {
	existing, err := r.authors.FindByEmail(ctx, author.Email)
	if err != nil {
		return Skipped, fmt.Errorf("find author %s: %w", author.Email, err)
	}

	if existing == nil {
		author.Publications = []model.Publication{pub}
		err := r.authors.Insert(ctx, &author)
		if err == nil {
			return Created, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return Skipped, fmt.Errorf("insert author %s: %w", author.Email, err)
		}
		// Inserted by another process between lookup and insert.
		existing, err = r.authors.FindByEmail(ctx, author.Email)
		if err != nil {
			return Skipped, fmt.Errorf("find author %s: %w", author.Email, err)
		}
		if existing == nil {
			return Skipped, fmt.Errorf("author %s rejected as duplicate but not found", author.Email)
		}
	}

	if existing.HasPublication(pub.Name) {
		return Unchanged, nil
	}
	if err := r.authors.AppendPublication(ctx, author.Email, pub); err != nil {
		return Skipped, fmt.Errorf("append publication to %s: %w", author.Email, err)
	}
	return Appended, nil
}

func (r *Reconciler) lock(email string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(email))
	return &r.locks[h.Sum32()%lockStripes]
}
