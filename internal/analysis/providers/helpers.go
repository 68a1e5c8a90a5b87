package providers

import (
	"encoding/json"
	"errors"
	"math"
)

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// decodeRanked accepts both response shapes the inference API produces for
// text classification: a list of label scores wrapped in an outer array for
// single inputs, or the flat list some models return.
func decodeRanked(data []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(data, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, errors.New("empty classification response")
		}
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, err
	}
	if len(flat) == 0 {
		return nil, errors.New("empty classification response")
	}
	return flat, nil
}

func topLabel(ranked []labelScore) labelScore {
	top := ranked[0]
	for _, candidate := range ranked[1:] {
		if candidate.Score > top.Score {
			top = candidate
		}
	}
	return top
}

// confidencePercent converts a 0..1 model score to the 0..100 integer the
// rest of the pipeline reports.
func confidencePercent(score float64) int {
	percent := int(math.Round(score * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
