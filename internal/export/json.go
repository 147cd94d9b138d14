package export

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/calclab/internal/calculus"
)

// Number is a float64 that encodes NaN and ±Inf as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// Report is the JSON document written by the CLI.
type Report struct {
	Expression string                       `json:"expression"`
	Operation  string                       `json:"operation"`
	Viewport   *calculus.Viewport           `json:"viewport,omitempty"`
	Params     map[string]Number            `json:"params,omitempty"`
	Results    map[string]Number            `json:"results,omitempty"`
	Series     map[string][]calculus.Sample `json:"series,omitempty"`
	Error      string                       `json:"error,omitempty"`
}

func WriteJSON(w io.Writer, r Report) error {
	for name, samples := range r.Series {
		if samples == nil {
			r.Series[name] = []calculus.Sample{}
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
