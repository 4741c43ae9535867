// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aibor/ldresolve/internal/resolve"
)

type jsonResult struct {
	*resolve.Result

	Found   int `json:"found"`
	Missing int `json:"missing"`
}

// WriteJSON renders the results as indented JSON array.
func WriteJSON(w io.Writer, results []*resolve.Result) error {
	out := make([]jsonResult, 0, len(results))

	for _, result := range results {
		if result == nil {
			continue
		}

		out = append(out, jsonResult{
			Result:  result,
			Found:   result.Found(),
			Missing: result.Missing(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(out)
	if err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}
