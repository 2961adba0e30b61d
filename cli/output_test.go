package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveblush/reraw-search/models"
)

func goldenEvents() []*models.Event {
	return []*models.Event{
		{
			ID:        "4376c65d2f232afbe9b882a35baa4f6fe8667c4e684749af565f981833ed6a65",
			Pubkey:    "6e468422dfb74a5738702a8823b9b28168abab8655faacb6853cd0ee15deee93",
			CreatedAt: 1700000000,
			Kind:      1,
			Tags: models.Tags{
				{"t", "nostr"},
				{"p", "32e1827635450ebb3c5a7d12c1f8e7b2b514439ac10a67eef3d9fd9c5c68e245"},
			},
			Content: "hello\nworld",
		},
		{ID: "abc", Pubkey: "def", CreatedAt: 1699990000, Kind: 7, Content: "+"},
		{ID: "x", Pubkey: "y", CreatedAt: 0, Kind: 0},
	}
}

func newTestPrinter(format string) (*Printer, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	return &Printer{
		Format:    format,
		Writer:    buf,
		ErrWriter: &syncWriter{w: &bytes.Buffer{}},
		Location:  time.UTC,
	}, buf
}

func TestEventsText(t *testing.T) {
	p, buf := newTestPrinter(FormatText)
	require.NoError(t, p.Events(goldenEvents()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "events", buf.Bytes())
}

func TestFollowingsText(t *testing.T) {
	p, buf := newTestPrinter(FormatText)
	require.NoError(t, p.Followings([]*models.Following{
		{Hex: "aa", Npub: "npub1aaa", Profile: models.Profile{Display: "Alice", Nick: "alice", Picture: "https://example.com/a.png"}},
		{Hex: "bb", Npub: "npub1bbb", Profile: models.Profile{Nick: "bob"}},
		{Hex: "cc", Npub: "npub1ccc"},
	}))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "followings", buf.Bytes())
}

func TestEventsJSON(t *testing.T) {
	p, buf := newTestPrinter(FormatJSON)
	require.NoError(t, p.Events(goldenEvents()[1:2]))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "["))
	assert.Contains(t, out, `"id": "abc"`)
	assert.Contains(t, out, `"created_at": 1699990000`)
	assert.NotContains(t, out, `"sig"`)
}

func TestEventsEmptyJSON(t *testing.T) {
	p, buf := newTestPrinter(FormatJSON)
	require.NoError(t, p.Events(nil))

	assert.Equal(t, "[]\n", buf.String())
}

func TestFollowingsYAML(t *testing.T) {
	p, buf := newTestPrinter(FormatYAML)
	require.NoError(t, p.Followings([]*models.Following{
		{Hex: "aa", Npub: "npub1aaa", Profile: models.Profile{Display: "Alice"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "- hex: aa\n")
	assert.Contains(t, out, "  npub: npub1aaa\n")
	assert.Contains(t, out, "  display: Alice\n")
}

func TestSummary(t *testing.T) {
	s := &Summary{Kind: 1, Count: 3, Elapsed: 1500 * time.Millisecond}
	assert.Equal(t, "pubkey=any kind=1 count=3 elapsed=1500ms", s.String())

	s = &Summary{
		Pubkey:  "npub10elfcs4fr0l0r8af98jlmgdh9c8tcxjvz9qkw038js35mp4dma8qzvjptg",
		Kind:    30023,
		Tag:     "#t:go",
		Count:   0,
		Elapsed: 20 * time.Millisecond,
	}
	assert.Equal(t, "pubkey=npub10elfcs4… kind=30023 tag=#t:go count=0 elapsed=20ms", s.String())

	s = &Summary{Search: "nostr dev", Count: 1}
	assert.Equal(t, `pubkey=any search="nostr dev" count=1 elapsed=0ms`, s.String())
}

func TestProgressLines(t *testing.T) {
	errBuf := &bytes.Buffer{}
	p := &Printer{Format: FormatText, ErrWriter: errBuf}

	p.Progress(&models.Progress{Type: models.ProgressOpened, Endpoint: "wss://a.example"})
	p.Progress(&models.Progress{Type: models.ProgressRecord, Endpoint: "wss://a.example"})
	p.Progress(&models.Progress{Type: models.ProgressExhausted, Endpoint: "wss://a.example"})

	assert.Equal(t, "[opened] wss://a.example\n[stream-exhausted] wss://a.example\n", errBuf.String())
}
