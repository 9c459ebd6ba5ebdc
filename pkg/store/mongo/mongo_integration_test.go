//go:build integration

package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := fmt.Sprintf("harvester_test_%d", time.Now().UnixNano())
	s, err := Connect(ctx, uri, db)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.db.Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestAuthors_Integration(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := &model.Author{Email: "dev@pkg.io", Name: "Dev", Publications: []model.Publication{{Name: "left-pad", Source: model.SourceNPM}}}
	if err := s.Authors().Insert(ctx, a); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := s.Authors().Insert(ctx, a); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate Insert() error = %v, want ErrDuplicate", err)
	}
	if err := s.Authors().AppendPublication(ctx, a.Email, model.Publication{Name: "acme/tool", Source: model.SourceGitHub}); err != nil {
		t.Fatalf("AppendPublication() error: %v", err)
	}

	got, err := s.Authors().FindByEmail(ctx, a.Email)
	if err != nil || got == nil {
		t.Fatalf("FindByEmail() = %v, %v", got, err)
	}
	if len(got.Publications) != 2 {
		t.Errorf("publications = %+v, want 2 entries", got.Publications)
	}

	missing, err := s.Authors().FindByEmail(ctx, "nobody@pkg.io")
	if err != nil || missing != nil {
		t.Errorf("FindByEmail(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestKeywordsAndStages_Integration(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, v := range []string{"a", "b", "c"} {
		if err := s.Keywords().Insert(ctx, model.Keyword{Value: v, Timestamp: int64(100 * (i + 1))}); err != nil {
			t.Fatalf("Insert(%s) error: %v", v, err)
		}
	}

	got, err := s.Keywords().Since(ctx, 200, 10)
	if err != nil {
		t.Fatalf("Since() error: %v", err)
	}
	if len(got) != 2 || got[0].Value != "b" {
		t.Errorf("Since(200) = %+v", got)
	}

	st := model.Stage{Worker: model.SourceNPM, LastKeyword: got[0]}
	if err := s.Stages().Save(ctx, st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	st.LastKeyword = got[1]
	if err := s.Stages().Save(ctx, st); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	list, err := s.Stages().List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 || list[0].LastKeyword.Value != "c" {
		t.Errorf("List() = %+v, want single npm stage at c", list)
	}
}
