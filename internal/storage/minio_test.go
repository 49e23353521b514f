package storage

import (
	"encoding/json"
	"regexp"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		opts  Options
		match string
	}{
		{
			name:  "keeps original name",
			base:  "cat.jpg",
			opts:  Options{Folder: "photos-app-levig", UseFilename: true},
			match: `^photos-app-levig/cat\.jpg$`,
		},
		{
			name:  "unique suffix",
			base:  "cat.jpg",
			opts:  Options{Folder: "photos-app-levig", UseFilename: true, UniqueFilename: true},
			match: `^photos-app-levig/cat_[0-9a-f]{8}\.jpg$`,
		},
		{
			name:  "random name",
			base:  "cat.jpg",
			opts:  Options{Folder: "photos-app-levig"},
			match: `^photos-app-levig/[0-9a-f-]{36}\.jpg$`,
		},
		{
			name:  "no folder",
			base:  "cat.jpg",
			opts:  Options{UseFilename: true},
			match: `^cat\.jpg$`,
		},
		{
			name:  "no extension",
			base:  "cat",
			opts:  Options{Folder: "a/b", UseFilename: true},
			match: `^a/b/cat$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := objectKey(tt.base, tt.opts)
			if !regexp.MustCompile(tt.match).MatchString(got) {
				t.Errorf("objectKey(%q, %+v) = %q, want match %s", tt.base, tt.opts, got, tt.match)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	s := &MinioStorage{publicBase: "http://localhost:9000/photos"}

	if got := s.PublicURL("photos-app-levig/cat.jpg"); got != "http://localhost:9000/photos/photos-app-levig/cat.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Statement []struct {
			Action   string
			Resource string
		}
	}
	if err := json.Unmarshal([]byte(publicReadPolicy("photos")), &policy); err != nil {
		t.Fatalf("policy is not valid JSON: %v", err)
	}
	if len(policy.Statement) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(policy.Statement))
	}
	if policy.Statement[0].Action != "s3:GetObject" {
		t.Errorf("Action = %q", policy.Statement[0].Action)
	}
	if policy.Statement[0].Resource != "arn:aws:s3:::photos/*" {
		t.Errorf("Resource = %q", policy.Statement[0].Resource)
	}
}
