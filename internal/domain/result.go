package domain

// BulkItemOutcome classifies one item of a bulk review operation.
type BulkItemOutcome string

const (
	BulkItemSuccess BulkItemOutcome = "SUCCESS"
	BulkItemSkipped BulkItemOutcome = "SKIPPED"
	BulkItemFailed  BulkItemOutcome = "FAILED"
)

type BulkItemResult struct {
	RequestID int32           `json:"request_id"`
	Outcome   BulkItemOutcome `json:"outcome"`
	Status    RequestStatus   `json:"status,omitempty"` // resulting status for successful items
	Reason    string          `json:"reason,omitempty"`
}

// BulkResult reports every input id in input order plus aggregate counts.
type BulkResult struct {
	Items     []BulkItemResult `json:"items"`
	Succeeded int32            `json:"succeeded"`
	Skipped   int32            `json:"skipped"`
	Failed    int32            `json:"failed"`
}

func (r *BulkResult) Add(item BulkItemResult) {
	r.Items = append(r.Items, item)
	switch item.Outcome {
	case BulkItemSuccess:
		r.Succeeded++
	case BulkItemSkipped:
		r.Skipped++
	case BulkItemFailed:
		r.Failed++
	}
}
