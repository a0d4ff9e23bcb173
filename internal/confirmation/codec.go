package confirmation

import (
	"encoding/json"
	"net/url"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
)

// Encode renders conf as percent-encoded UTF-8 JSON, suitable for a query
// parameter.
func Encode(conf *model.Confirmation) (string, error) {
	data, err := json.Marshal(conf)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(data)), nil
}

// Decode reverses Encode. Malformed input yields ok=false, never a panic.
func Decode(s string) (*model.Confirmation, bool) {
	if s == "" {
		return nil, false
	}
	raw, err := url.QueryUnescape(s)
	if err != nil {
		return nil, false
	}
	var conf model.Confirmation
	if err := json.Unmarshal([]byte(raw), &conf); err != nil || conf.BookingID == "" {
		return nil, false
	}
	return &conf, true
}
