package sheets

import (
	"encoding/json"
	"strconv"
)

// ValueRange is the response body of a values GET.
// Values is nil when the range holds no data.
type ValueRange struct {
	Range          string `json:"range"`
	MajorDimension string `json:"majorDimension"`
	Values         []Row  `json:"values"`
}

// Row is one spreadsheet row. Cells that arrive as JSON numbers or booleans
// (valueRenderOption=UNFORMATTED_VALUE) are converted to their text form.
type Row []string

// UnmarshalJSON accepts an array of strings, numbers, booleans or nulls.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Row, len(raw))
	for i, v := range raw {
		switch c := v.(type) {
		case string:
			out[i] = c
		case float64:
			out[i] = strconv.FormatFloat(c, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(c)
		}
	}
	*r = out
	return nil
}

// HasData reports whether the response carries a values array at all.
// A header-only range has data: it means the sheet is currently empty.
func (vr *ValueRange) HasData() bool {
	return vr != nil && len(vr.Values) > 0
}

// Rows returns the data rows with the header row removed, or nil when the
// response has no usable data.
func (vr *ValueRange) Rows() [][]string {
	if vr == nil || len(vr.Values) == 0 {
		return nil
	}
	out := make([][]string, 0, len(vr.Values)-1)
	for _, row := range vr.Values[1:] {
		out = append(out, row)
	}
	return out
}
