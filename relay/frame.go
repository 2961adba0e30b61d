package relay

import (
	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"

	"github.com/saveblush/reraw-search/models"
)

const (
	labelEvent = "EVENT"
	labelEOSE  = "EOSE"
)

type frameType int

const (
	frameIgnored frameType = iota
	frameEvent
	frameEOSE
)

// parseFrame classify an inbound frame for subscription subID,
// anything unrecognised is ignored
func parseFrame(msg []byte, subID string) (frameType, *models.Event) {
	if !gjson.ValidBytes(msg) {
		return frameIgnored, nil
	}

	root := gjson.ParseBytes(msg)
	if !root.IsArray() {
		return frameIgnored, nil
	}

	arr := root.Array()
	if len(arr) < 2 || arr[1].Type != gjson.String || arr[1].Str != subID {
		return frameIgnored, nil
	}

	switch arr[0].Str {
	case labelEvent:
		if len(arr) < 3 || !arr[2].IsObject() || arr[2].Get("id").Type != gjson.String {
			return frameIgnored, nil
		}

		var evt models.Event
		err := sonic.UnmarshalString(arr[2].Raw, &evt)
		if err != nil {
			return frameIgnored, nil
		}

		return frameEvent, &evt

	case labelEOSE:
		return frameEOSE, nil
	}

	return frameIgnored, nil
}
