package ws

import (
	"github.com/goccy/go-json"

	"price_backend/internal/feature/pricestream/usecase"
)

// inboundFrame is the envelope of a client frame: {"event", "id", "data"}.
type inboundFrame struct {
	Event string          `json:"event"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
}

type symbolsPayload struct {
	Symbols *[]string `json:"symbols"`
}

// decodeFrame parses a client frame. A frame that is not a JSON object fails;
// a bad data payload yields a request whose Symbols is nil.
func decodeFrame(raw []byte) (usecase.Request, error) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return usecase.Request{}, err
	}
	req := usecase.Request{Event: f.Event, ID: f.ID}

	var p symbolsPayload
	if len(f.Data) == 0 || json.Unmarshal(f.Data, &p) != nil || p.Symbols == nil {
		return req, nil
	}
	req.Symbols = *p.Symbols
	if req.Symbols == nil {
		req.Symbols = []string{}
	}
	return req, nil
}
