package models

import (
	"github.com/nbd-wtf/go-nostr"
)

const (
	MaxUint16 = 65535
	MaxUint32 = 4294967295
)

// Event one record returned by a relay, id is the dedup key
type Event struct {
	ID        string          `json:"id" yaml:"id"`
	Pubkey    string          `json:"pubkey" yaml:"pubkey"`
	CreatedAt nostr.Timestamp `json:"created_at" yaml:"created_at"`
	Kind      int             `json:"kind" yaml:"kind"`
	Tags      Tags            `json:"tags" yaml:"tags"`
	Content   string          `json:"content" yaml:"content"`
	Sig       string          `json:"sig,omitempty" yaml:"sig,omitempty"`
}

// Nostr convert to go-nostr event
func (e *Event) Nostr() *nostr.Event {
	tags := make(nostr.Tags, 0, len(e.Tags))
	for _, v := range e.Tags {
		tags = append(tags, nostr.Tag(v))
	}

	return &nostr.Event{
		ID:        e.ID,
		PubKey:    e.Pubkey,
		CreatedAt: e.CreatedAt,
		Kind:      e.Kind,
		Tags:      tags,
		Content:   e.Content,
		Sig:       e.Sig,
	}
}
