package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/saveblush/reraw-search/core/utils"
	"github.com/saveblush/reraw-search/models"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	shortID      = 12
	shortContent = 280
)

// Printer writes results in the selected format
type Printer struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Location  *time.Location
}

// syncWriter writer shared with the progress goroutine
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

// Value json or yaml of v, text falls back to fmt
func (p *Printer) Value(v any) error {
	switch p.Format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.Writer, string(b))
		return err

	case FormatYAML:
		enc := yaml.NewEncoder(p.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	_, err := fmt.Fprintln(p.Writer, v)
	return err
}

// Events records, newest first as given
func (p *Printer) Events(evts []*models.Event) error {
	if p.Format != FormatText {
		if evts == nil {
			evts = []*models.Event{}
		}
		return p.Value(evts)
	}

	var sb strings.Builder
	for _, evt := range evts {
		p.writeEvent(&sb, evt)
	}
	_, err := io.WriteString(p.Writer, sb.String())

	return err
}

func (p *Printer) writeEvent(sb *strings.Builder, evt *models.Event) {
	fmt.Fprintf(sb, "%s  kind:%d  id:%s  pubkey:%s\n",
		utils.FormatUnix(int64(evt.CreatedAt), p.Location),
		evt.Kind,
		utils.Shorten(evt.ID, shortID),
		utils.Shorten(evt.Pubkey, shortID),
	)

	content := strings.TrimSpace(evt.Content)
	if content != "" {
		runes := []rune(content)
		if len(runes) > shortContent {
			content = string(runes[:shortContent]) + "…"
		}
		for _, line := range strings.Split(content, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}

	if len(evt.Tags) > 0 {
		tags := make([]string, 0, len(evt.Tags))
		for _, t := range evt.Tags {
			if len(t) == 0 {
				continue
			}
			tags = append(tags, t.Key()+"="+utils.Shorten(t.Value(), 2*shortID))
		}
		sb.WriteString("  tags: " + strings.Join(tags, ", ") + "\n")
	}
	sb.WriteString("\n")
}

// Followings followed accounts
func (p *Printer) Followings(list []*models.Following) error {
	if p.Format != FormatText {
		if list == nil {
			list = []*models.Following{}
		}
		return p.Value(list)
	}

	var sb strings.Builder
	for _, f := range list {
		name := f.Name()
		if f.Nick != "" && f.Nick != name {
			name += " (" + f.Nick + ")"
		}
		fmt.Fprintf(&sb, "%s  %s", f.Npub, name)
		if f.Picture != "" {
			sb.WriteString("  " + f.Picture)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%d followings\n", len(list))
	_, err := io.WriteString(p.Writer, sb.String())

	return err
}

// Progress one line per session progress, records are not listed
func (p *Printer) Progress(pr *models.Progress) {
	switch pr.Type {
	case models.ProgressRecord:
		return
	case models.ProgressFailed:
		fmt.Fprintf(p.ErrWriter, "[%s] %s: %s\n", pr.Type, pr.Endpoint, pr.Err)
	default:
		fmt.Fprintf(p.ErrWriter, "[%s] %s\n", pr.Type, pr.Endpoint)
	}
}

// Summary one line about the finished query, text format only
func (p *Printer) Summary(s *Summary) {
	if p.Format != FormatText {
		return
	}

	fmt.Fprintln(p.Writer, s.String())
}

// Summary what was asked and what came back
type Summary struct {
	Pubkey  string
	Kind    int
	Tag     string
	Search  string
	Count   int
	Elapsed time.Duration
}

func (s *Summary) String() string {
	pubkey := "any"
	if s.Pubkey != "" {
		pubkey = utils.Shorten(s.Pubkey, shortID)
	}

	var parts []string
	parts = append(parts, "pubkey="+pubkey)
	if s.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", s.Search))
	} else {
		parts = append(parts, fmt.Sprintf("kind=%d", s.Kind))
	}
	if s.Tag != "" {
		parts = append(parts, "tag="+s.Tag)
	}
	parts = append(parts, fmt.Sprintf("count=%d", s.Count))
	parts = append(parts, fmt.Sprintf("elapsed=%dms", s.Elapsed.Milliseconds()))

	return strings.Join(parts, " ")
}
