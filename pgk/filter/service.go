package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/nbd-wtf/go-nostr"

	"github.com/saveblush/reraw-search/core/generic"
	"github.com/saveblush/reraw-search/core/utils"
	"github.com/saveblush/reraw-search/models"
	"github.com/saveblush/reraw-search/pgk/identity"
)

const (
	// MaxAuthors authors kept per search filter
	MaxAuthors = 40
	MaxRelays  = 5

	relaySeparators  = ",\n\r"
	authorSeparators = ", \t\n\r"
)

var (
	ErrInvalidInput = errors.New("invalid: input")
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Query validated wire filter plus the relays it goes to
type Query struct {
	Relays  []string
	Filter  nostr.Filter
	Limit   int
	Timeout time.Duration
}

// Service service interface
type Service interface {
	BuildQuery(req *models.QueryRequest) (*Query, error)
	BuildSearch(req *models.SearchRequest) (*Query, error)
}

type service struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewService new filter builder, allowInsecure also accepts ws:// relays
func NewService(allowInsecure bool) Service {
	v, trans := newValidator(allowInsecure)

	return &service{
		validate: v,
		trans:    trans,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *service) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return invalid("%s", validationMessage(err, s.trans))
	}

	return nil
}

// BuildQuery filter for one kind, optional author and optional single tag
func (s *service) BuildQuery(req *models.QueryRequest) (*Query, error) {
	in := *req
	in.Relays = SplitRelays(req.Relays...)
	in.TagName = strings.TrimSpace(req.TagName)
	in.TagValue = strings.TrimSpace(req.TagValue)

	author, err := DecodeAuthor(in.Author)
	if err != nil {
		return nil, err
	}

	if (in.TagName == "") != (in.TagValue == "") {
		return nil, invalid("tag name and tag value must be given together")
	}

	if err := s.check(&in); err != nil {
		return nil, err
	}

	f := nostr.Filter{
		Kinds: []int{in.Kind},
		Limit: in.Limit,
	}
	if author != "" {
		f.Authors = []string{author}
	}
	if in.TagName != "" {
		f.Tags = nostr.TagMap{in.TagName: []string{in.TagValue}}
	}

	return &Query{Relays: in.Relays, Filter: f, Limit: in.Limit, Timeout: in.Timeout}, nil
}

// BuildSearch NIP-50 search filter over text notes
func (s *service) BuildSearch(req *models.SearchRequest) (*Query, error) {
	in := *req
	in.Relays = SplitRelays(req.Relays...)
	in.Search = strings.TrimSpace(req.Search)

	authors, err := ParseAuthors(in.Authors)
	if err != nil {
		return nil, err
	}

	since, err := ParseTime(in.Since)
	if err != nil {
		return nil, err
	}
	until, err := ParseTime(in.Until)
	if err != nil {
		return nil, err
	}
	if since != nil && until != nil && *since > *until {
		return nil, invalid("since must not be after until")
	}

	if err := s.check(&in); err != nil {
		return nil, err
	}

	f := nostr.Filter{
		Kinds:   []int{nostr.KindTextNote},
		Search:  in.Search,
		Limit:   in.Limit,
		Authors: authors,
		Since:   since,
		Until:   until,
	}

	return &Query{Relays: in.Relays, Filter: f, Limit: in.Limit, Timeout: in.Timeout}, nil
}

// SplitRelays split every item on commas and newlines, trim and dedupe
func SplitRelays(items ...string) []string {
	var result []string
	for _, v := range items {
		result = append(result, generic.SplitFields(v, relaySeparators)...)
	}

	return generic.Unique(result)
}

// DecodeAuthor empty, 64 hex or npub, returns lower case hex or ""
func DecodeAuthor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	pk, err := identity.Decode(s)
	if err != nil {
		return "", invalid("author %q: %s", utils.Shorten(s, 16), err)
	}

	return pk, nil
}

// ParseAuthors several authors separated by whitespace or commas,
// deduped in input order and capped at MaxAuthors, nil when none
func ParseAuthors(s string) ([]string, error) {
	tokens := generic.Unique(generic.SplitFields(s, authorSeparators))
	if len(tokens) == 0 {
		return nil, nil
	}

	result := make([]string, 0, len(tokens))
	for _, v := range tokens {
		pk, err := DecodeAuthor(v)
		if err != nil {
			return nil, err
		}
		result = append(result, pk)
	}
	result = generic.Unique(result)

	if len(result) > MaxAuthors {
		result = result[:MaxAuthors]
	}

	return result, nil
}

// ParseKind non-negative integer kind from text
func ParseKind(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, invalid("kind must be an integer of 0 or more")
	}

	return n, nil
}

// ParseTime unix seconds or a date/time in local time, nil when empty
func ParseTime(s string) (*nostr.Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return nil, invalid("time must not be negative")
		}
		return utils.Pointer(nostr.Timestamp(n)), nil
	}

	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return utils.Pointer(nostr.Timestamp(t.Unix())), nil
		}
	}

	return nil, invalid("invalid date format: %s", s)
}
