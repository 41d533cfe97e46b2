package record

import (
	"errors"
	"strings"
	"testing"

	"movie-sync-go/pkg/types"
)

func validMovie() map[string]any {
	return map[string]any{
		"_id":        "abc123",
		"name":       "Test Movie",
		"slug":       "test-movie",
		"content":    "A movie about testing.",
		"category":   []any{map[string]any{"name": "Action"}},
		"country":    []any{map[string]any{"name": "Vietnam"}},
		"poster_url": "https://img.example.com/poster.jpg",
		"year":       float64(2024),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[string]any)
		wantErr bool
	}{
		{
			name:    "valid movie passes",
			mutate:  func(m map[string]any) {},
			wantErr: false,
		},
		{
			name:    "missing slug",
			mutate:  func(m map[string]any) { delete(m, "slug") },
			wantErr: true,
		},
		{
			name:    "empty id",
			mutate:  func(m map[string]any) { m["_id"] = "" },
			wantErr: true,
		},
		{
			name:    "missing name",
			mutate:  func(m map[string]any) { delete(m, "name") },
			wantErr: true,
		},
		{
			name:    "missing content",
			mutate:  func(m map[string]any) { delete(m, "content") },
			wantErr: true,
		},
		{
			name:    "category not a list",
			mutate:  func(m map[string]any) { m["category"] = "Action" },
			wantErr: true,
		},
		{
			name:    "country not a list",
			mutate:  func(m map[string]any) { m["country"] = map[string]any{"name": "Vietnam"} },
			wantErr: true,
		},
		{
			name:    "explicit null category",
			mutate:  func(m map[string]any) { m["category"] = nil },
			wantErr: true,
		},
		{
			name:    "explicit null country",
			mutate:  func(m map[string]any) { m["country"] = nil },
			wantErr: true,
		},
		{
			name:    "numeric id accepted",
			mutate:  func(m map[string]any) { m["_id"] = float64(1234) },
			wantErr: false,
		},
		{
			name:    "zero numeric id",
			mutate:  func(m map[string]any) { m["_id"] = float64(0) },
			wantErr: true,
		},
		{
			name: "empty lists allowed",
			mutate: func(m map[string]any) {
				m["category"] = []any{}
				m["country"] = []any{}
			},
			wantErr: false,
		},
		{
			name: "absent lists allowed",
			mutate: func(m map[string]any) {
				delete(m, "category")
				delete(m, "country")
			},
			wantErr: false,
		},
		{
			name: "thumbnail alone is enough",
			mutate: func(m map[string]any) {
				delete(m, "poster_url")
				m["thumb_url"] = "https://img.example.com/thumb.jpg"
			},
			wantErr: false,
		},
		{
			name: "no image URL at all",
			mutate: func(m map[string]any) {
				delete(m, "poster_url")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMovie()
			tt.mutate(m)
			err := Validate(m)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error is %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestBuildSanitizesFields(t *testing.T) {
	movie := validMovie()
	movie["name"] = "“Fancy” Movie"
	movie["origin_name"] = "Orig\ninal"
	detail := &types.DetailResponse{
		Status: true,
		Movie:  movie,
		Episodes: []types.ServerGroup{{
			ServerName: "Server #1",
			ServerData: []types.Episode{{
				Name:     "Tập 1\n",
				Filename: "ep’01",
				LinkM3U8: "https://cdn.example.com/ep1.m3u8",
			}},
		}},
	}

	rec, err := Build(detail)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := rec.Movie["name"]; got != `"Fancy" Movie` {
		t.Errorf("movie name = %q", got)
	}
	if got := rec.Movie["origin_name"]; got != "Original" {
		t.Errorf("origin_name = %q", got)
	}
	ep := rec.Episodes[0].ServerData[0]
	if ep.Name != "Tập 1" {
		t.Errorf("episode name = %q", ep.Name)
	}
	if ep.Filename != "ep'01" {
		t.Errorf("episode filename = %q", ep.Filename)
	}
	// Non-sanitized episode fields pass through unchanged.
	if ep.LinkM3U8 != "https://cdn.example.com/ep1.m3u8" {
		t.Errorf("link_m3u8 = %q", ep.LinkM3U8)
	}
}

func TestBuildTruncatesSynopsis(t *testing.T) {
	tests := []struct {
		name      string
		length    int
		wantRunes int
		marker    bool
	}{
		{name: "long synopsis truncated", length: 1500, wantRunes: 1003, marker: true},
		{name: "short synopsis untouched", length: 500, wantRunes: 500, marker: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movie := validMovie()
			movie["content"] = strings.Repeat("x", tt.length)
			rec, err := Build(&types.DetailResponse{Status: true, Movie: movie})
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			content := rec.Movie["content"].(string)
			if got := len([]rune(content)); got != tt.wantRunes {
				t.Errorf("content length = %d runes, want %d", got, tt.wantRunes)
			}
			if tt.marker != strings.HasSuffix(content, "...") {
				t.Errorf("truncation marker presence = %v, want %v", !tt.marker, tt.marker)
			}
		})
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	movie := validMovie()
	movie["name"] = "Name\nWith Newline"
	detail := &types.DetailResponse{Status: true, Movie: movie}

	if _, err := Build(detail); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if detail.Movie["name"] != "Name\nWith Newline" {
		t.Errorf("Build mutated the raw movie document")
	}
}

func TestBuildPassesThroughUnknownFields(t *testing.T) {
	movie := validMovie()
	movie["chieurap"] = true
	movie["tmdb"] = map[string]any{"id": "123", "vote_average": 7.5}

	rec, err := Build(&types.DetailResponse{Status: true, Movie: movie})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if rec.Movie["chieurap"] != true {
		t.Errorf("chieurap not passed through")
	}
	if _, ok := rec.Movie["tmdb"].(map[string]any); !ok {
		t.Errorf("tmdb not passed through")
	}
}
