package evidence

import (
	"encoding/json"
	"fmt"
)

// wireRecord is the submission shape: a FHIR-style Evidence resource with
// the statistical extensions the validator understands. Field names follow
// the upstream Evidence resource (camelCase), so submissions produced for
// the reference validator work unchanged.
type wireRecord struct {
	ResourceType string `json:"resourceType,omitempty"`
	ID           string `json:"id,omitempty"`
	Status       string `json:"status,omitempty"`

	StatisticalTest *struct {
		Coding []struct {
			System  string `json:"system,omitempty"`
			Code    string `json:"code"`
			Display string `json:"display,omitempty"`
		} `json:"coding"`
	} `json:"statisticalTest,omitempty"`

	Statistic []Statistic `json:"statistic,omitempty"`
	PValue    *struct {
		Value *float64 `json:"value"`
		Unit  string   `json:"unit,omitempty"`
	} `json:"pValue,omitempty"`
	SampleSize *struct {
		Value *int `json:"value"`
	} `json:"sampleSize,omitempty"`

	// Variables may arrive as objects ({"name":..,"value":..}) or as
	// bare strings; both occur in upstream submissions.
	Variable []json.RawMessage `json:"variable,omitempty"`

	Outcome *struct {
		Value any `json:"value"`
	} `json:"outcome,omitempty"`
	Coefficient []float64 `json:"coefficient,omitempty"`
	OddsRatio   []float64 `json:"oddsRatio,omitempty"`

	TimeToEvent []float64 `json:"timeToEvent,omitempty"`
	EventStatus []boolish `json:"eventStatus,omitempty"`

	License    string       `json:"license,omitempty"`
	Identifier []Identifier `json:"identifier,omitempty"`
	Version    string       `json:"version,omitempty"`
}

// boolish accepts JSON booleans and 0/1 numerics for event-status flags.
type boolish bool

func (b *boolish) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1", "1.0":
		*b = true
		return nil
	case "false", "0", "0.0", "null":
		*b = false
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("event status must be boolean or 0/1: %s", data)
	}
	*b = f != 0
	return nil
}

// DecodeRecords parses a JSON payload into evidence records. The payload
// may be a single resource object or an array of them.
func DecodeRecords(data []byte) ([]Record, error) {
	var wires []wireRecord
	if err := json.Unmarshal(data, &wires); err != nil {
		var single wireRecord
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("payload is neither a resource nor an array of resources: %w", err)
		}
		wires = []wireRecord{single}
	}

	records := make([]Record, 0, len(wires))
	for i, w := range wires {
		rec, err := w.toRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (w *wireRecord) toRecord() (Record, error) {
	rec := Record{
		ID:           w.ID,
		Status:       w.Status,
		TestType:     TestUnknown,
		Statistics:   w.Statistic,
		Coefficients: w.Coefficient,
		OddsRatios:   w.OddsRatio,
		TimeToEvent:  w.TimeToEvent,
		License:      w.License,
		Identifiers:  w.Identifier,
		Version:      w.Version,
	}

	if w.StatisticalTest != nil && len(w.StatisticalTest.Coding) > 0 {
		rec.TestType = ParseTestType(w.StatisticalTest.Coding[0].Code)
	}
	// Out-of-range statistic fields degrade the record rather than abort
	// the submission: the field is dropped, and the missing edge surfaces
	// as a constraint violation downstream.
	if w.PValue != nil && w.PValue.Value != nil {
		if v := *w.PValue.Value; v >= 0 && v <= 1 {
			rec.PValue = &v
		}
	}
	if w.SampleSize != nil && w.SampleSize.Value != nil {
		if n := *w.SampleSize.Value; n > 0 {
			rec.SampleSize = &n
		}
	}
	if w.Outcome != nil && w.Outcome.Value != nil {
		b := coerceBool(w.Outcome.Value)
		rec.Outcome = &b
	}
	for _, raw := range w.Variable {
		rec.Variables = append(rec.Variables, decodeVariable(raw))
	}
	for _, e := range w.EventStatus {
		rec.EventStatus = append(rec.EventStatus, bool(e))
	}
	return rec, nil
}

func decodeVariable(raw json.RawMessage) Variable {
	var v Variable
	if err := json.Unmarshal(raw, &v); err == nil && v.Name != "" {
		return v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Variable{Name: s}
	}
	return Variable{Name: string(raw)}
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0" && t != "false"
	default:
		return v != nil
	}
}
