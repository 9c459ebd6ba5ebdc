package npm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/harvester/pkg/integrations"
)

const searchFixture = `{
  "objects": [
    {"package": {
      "name": "left-pad",
      "keywords": ["pad", "string"],
      "author": {"name": "Azer", "email": "azer@example.com", "url": "https://azer.dev"},
      "publisher": {"username": "azer", "email": "azer@example.com"},
      "maintainers": [{"username": "stevemao", "email": "steve@example.com"}]
    }},
    {"package": {
      "name": "right-pad",
      "author": "Jane Doe <jane@example.com> (https://jane.dev)",
      "publisher": {"username": "jane", "email": "jane@example.com"},
      "maintainers": []
    }}
  ],
  "total": 2
}`

func TestClient_Search(t *testing.T) {
	var gotText, gotSize string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/-/v1/search" {
			http.NotFound(w, r)
			return
		}
		gotText = r.URL.Query().Get("text")
		gotSize = r.URL.Query().Get("size")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	c := NewClient(server.URL + "/")
	objects, err := c.Search(context.Background(), "pad string")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if gotText != "pad string" {
		t.Errorf("text query = %q, want %q", gotText, "pad string")
	}
	if gotSize != "20" {
		t.Errorf("size query = %q, want 20", gotSize)
	}
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}

	first := objects[0].Package
	if first.Author == nil || first.Author.Email != "azer@example.com" {
		t.Errorf("author = %+v", first.Author)
	}
	if len(first.Keywords) != 2 || len(first.Maintainers) != 1 {
		t.Errorf("keywords=%v maintainers=%v", first.Keywords, first.Maintainers)
	}

	second := objects[1].Package
	if second.Author == nil || second.Author.Email != "jane@example.com" || second.Author.URL != "https://jane.dev" {
		t.Errorf("string author not parsed: %+v", second.Author)
	}
}

func TestClient_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Search(context.Background(), "x")
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("Search() error = %v, want ErrNetwork", err)
	}
}

func TestParsePerson(t *testing.T) {
	tests := []struct {
		in   string
		want Person
	}{
		{"Barney Rubble <b@rubble.com> (http://barnyrubble.tumblr.com/)", Person{Name: "Barney Rubble", Email: "b@rubble.com", URL: "http://barnyrubble.tumblr.com/"}},
		{"Barney Rubble <b@rubble.com>", Person{Name: "Barney Rubble", Email: "b@rubble.com"}},
		{"Barney Rubble (http://example.com)", Person{Name: "Barney Rubble", URL: "http://example.com"}},
		{"Barney", Person{Name: "Barney"}},
		{"", Person{}},
		{"  <only@mail.com>  ", Person{Email: "only@mail.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParsePerson(tt.in); got != tt.want {
				t.Errorf("ParsePerson(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPersonUnmarshalObject(t *testing.T) {
	var p Person
	if err := json.Unmarshal([]byte(`{"username":"u","email":"e@x.io"}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Username != "u" || p.Email != "e@x.io" {
		t.Errorf("got %+v", p)
	}
}
