package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/calclab/internal/viz"
)

// WriteCSV writes every series in long form: one "series,x,y" row per
// sample.
func WriteCSV(w io.Writer, series []viz.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"series", "x", "y"}); err != nil {
		return err
	}

	for _, s := range series {
		for _, p := range s.Samples {
			row := []string{
				s.Name,
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
