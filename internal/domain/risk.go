package domain

import (
	"bytes"
	"encoding/json"
)

// RiskItem is one detected risk. The backend's risk list is heterogeneous:
// an element is either a bare string or an object with type, severity and
// message. Both cases normalize into this struct at decode time, so nothing
// downstream ever re-inspects the wire shape.
type RiskItem struct {
	Type     string `json:"type,omitempty"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message"`
}

// UnmarshalJSON accepts both wire shapes. A bare string becomes a RiskItem
// with only Message set.
func (r *RiskItem) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = RiskItem{Message: s}
		return nil
	}

	type wire RiskItem
	var w wire
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return err
	}
	*r = RiskItem(w)
	return nil
}

// Display is the single presentation form of a risk.
func (r RiskItem) Display() string {
	if r.Type == "" {
		return r.Message
	}
	return r.Type + ": " + r.Message
}
