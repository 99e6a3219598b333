package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sample = `
title: Quarterly Review
theme:
  accent: "#7D56F4"
slides:
  - kind: title
    title: Q3 Review
    subtitle: Numbers and next steps
  - kind: toc
    title: Agenda
  - kind: markdown
    source: slides/revenue.md
    title: Revenue
    section: 1
    accent: "#FF5555"
    props:
      owner: finance
  - kind: remote
    url: https://example.com/roadmap.md
    title: Roadmap
    latency: 250ms
`

func TestParseValidManifest(t *testing.T) {
	d, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, "Quarterly Review", d.Title)
	require.Len(t, d.Slides, 4)
	require.Equal(t, KindRemote, d.Slides[3].Kind)
	require.Equal(t, 250*time.Millisecond, d.Slides[3].Latency)

	props := d.Slides[2].StaticProps(d.Theme)
	require.Equal(t, "Revenue", props["title"])
	require.Equal(t, "#FF5555", props["accent"])
	require.Equal(t, 1, props["section"])
	require.Equal(t, "finance", props["owner"])

	require.Equal(t, "#7D56F4", d.Slides[0].StaticProps(d.Theme)["accent"])
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"no slides": {
			doc:  "title: empty\nslides: []\n",
			want: "slides",
		},
		"unknown kind": {
			doc:  "slides:\n  - kind: video\n",
			want: "slides[0].kind: must be one of title, markdown, toc, remote",
		},
		"markdown without source": {
			doc:  "slides:\n  - kind: markdown\n",
			want: "slides[0].source: is required",
		},
		"remote without url": {
			doc:  "slides:\n  - kind: title\n  - kind: remote\n",
			want: "slides[1].url: is required",
		},
		"bad accent": {
			doc:  "slides:\n  - kind: title\n    accent: orange\n",
			want: "slides[0].accent: must be a hex color",
		},
		"unknown field": {
			doc:  "slides:\n  - kind: title\n    colour: red\n",
			want: "colour",
		},
		"empty document": {
			doc:  "",
			want: "empty document",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	d, err := Load(path)
	require.NoError(t, err)
	require.Len(t, d.Slides, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "open manifest")
}
