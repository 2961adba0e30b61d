package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	const sub = "sub-0123456789ab"

	cases := []struct {
		name  string
		frame string
		want  frameType
	}{
		{"event", `["EVENT","sub-0123456789ab",{"id":"aa","pubkey":"bb","created_at":10,"kind":1,"tags":[["t","x"]],"content":"hi","sig":"cc"}]`, frameEvent},
		{"eose", `["EOSE","sub-0123456789ab"]`, frameEOSE},
		{"other subscription", `["EVENT","sub-other",{"id":"aa"}]`, frameIgnored},
		{"not json", `["EVENT","sub-0123456789ab",`, frameIgnored},
		{"object", `{"id":"aa"}`, frameIgnored},
		{"too short", `["EOSE"]`, frameIgnored},
		{"numeric sub", `["EOSE",12]`, frameIgnored},
		{"event without id", `["EVENT","sub-0123456789ab",{"content":"x"}]`, frameIgnored},
		{"event numeric id", `["EVENT","sub-0123456789ab",{"id":5}]`, frameIgnored},
		{"event without payload", `["EVENT","sub-0123456789ab"]`, frameIgnored},
		{"event bad payload", `["EVENT","sub-0123456789ab",{"id":"aa","kind":"one"}]`, frameIgnored},
		{"notice", `["NOTICE","sub-0123456789ab"]`, frameIgnored},
		{"closed", `["CLOSED","sub-0123456789ab","error: shutting down"]`, frameIgnored},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ, _ := parseFrame([]byte(tc.frame), sub)
			assert.Equal(t, tc.want, typ)
		})
	}
}

func TestParseFrameDecodesEvent(t *testing.T) {
	typ, evt := parseFrame([]byte(`["EVENT","s",{"id":"aa","pubkey":"bb","created_at":10,"kind":7,"tags":[["e","ff"],["p","ee"]],"content":"+"}]`), "s")
	require.Equal(t, frameEvent, typ)
	require.NotNil(t, evt)
	assert.Equal(t, "aa", evt.ID)
	assert.Equal(t, "bb", evt.Pubkey)
	assert.EqualValues(t, 10, evt.CreatedAt)
	assert.Equal(t, 7, evt.Kind)
	assert.Equal(t, []string{"ee"}, evt.Tags.Values("p"))
	assert.Equal(t, "+", evt.Content)
}
