package posts_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/argus-osint/argus/internal/posts"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    posts.Platform
		wantErr bool
	}{
		{"telegram", posts.PlatformTelegram, false},
		{"reddit", posts.PlatformReddit, false},
		{"forum", posts.PlatformForum, false},
		{"other", posts.PlatformOther, false},
		{"", "", true},
		{"Telegram", "", true},
		{"twitter", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := posts.ParsePlatform(tt.input)
			if tt.wantErr {
				if !errors.Is(err, posts.ErrInvalidPlatform) {
					t.Errorf("ParsePlatform(%q) error = %v, want ErrInvalidPlatform", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlatform(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlatform(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlatforms(t *testing.T) {
	all := posts.Platforms()
	if len(all) != 4 {
		t.Fatalf("got %d platforms, want 4", len(all))
	}
	for _, p := range all {
		if _, err := posts.ParsePlatform(string(p)); err != nil {
			t.Errorf("Platforms() returned invalid platform %q: %v", p, err)
		}
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("platform", "telegram")
	values.Set("channel", "osint")
	values.Set("language", "nl")

	f := posts.FiltersFromQuery(values)

	if f.Platform == nil || *f.Platform != "telegram" {
		t.Errorf("Platform = %v, want telegram", f.Platform)
	}
	if f.Channel == nil || *f.Channel != "osint" {
		t.Errorf("Channel = %v, want osint", f.Channel)
	}
	if f.Language == nil || *f.Language != "nl" {
		t.Errorf("Language = %v, want nl", f.Language)
	}
	if f.Author != nil {
		t.Errorf("Author = %v, want nil", f.Author)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := posts.FiltersFromQuery(url.Values{})

	if f.Platform != nil || f.Channel != nil || f.Author != nil || f.Language != nil {
		t.Errorf("empty query produced non-nil filters: %+v", f)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", posts.ErrNotFound, http.StatusNotFound},
		{"duplicate", posts.ErrDuplicate, http.StatusConflict},
		{"invalid platform", posts.ErrInvalidPlatform, http.StatusBadRequest},
		{"empty channel", posts.ErrEmptyChannel, http.StatusBadRequest},
		{"wrapped not found", errors.Join(errors.New("query"), posts.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := posts.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
