package history

import (
	"encoding/base64"

	"github.com/vmihailenco/msgpack/v5"
)

// encodeState packs an entry state value so it can be stored by a host that
// only understands strings, such as window.history.state.
func encodeState(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// decodeState reverses encodeState. The result holds generic msgpack values.
func decodeState(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var v any
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
