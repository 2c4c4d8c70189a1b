package response

import "github.com/NeuralTrust/ContentGuard/pkg/app/classifier"

type BatchResponse struct {
	Count   int                  `json:"count"`
	Flagged int                  `json:"flagged"`
	Results []*classifier.Result `json:"results"`
}

func NewBatchResponse(results []*classifier.Result) *BatchResponse {
	resp := &BatchResponse{
		Count:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Verdict.IsFlagged() {
			resp.Flagged++
		}
	}
	return resp
}
