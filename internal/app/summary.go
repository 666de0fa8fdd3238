package app

import (
	"github.com/samvad-hq/samvad-httpkit/internal/domain"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpkit/pkg/numfmt"
)

// Tally counts exchanges and how many of them failed.
type Tally struct {
	Total       int            `json:"total"`
	Failed      int            `json:"failed"`
	FailureRate numfmt.Percent `json:"failure_rate"`
}

func newTally(total, failed int) Tally {
	return Tally{Total: total, Failed: failed, FailureRate: numfmt.Ratio(failed, total)}
}

// TallyResults counts results carrying an error as failed.
func TallyResults(results []Result) Tally {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	return newTally(len(results), failed)
}

// TallyRecords counts journal records that did not complete as failed.
func TallyRecords(records []domain.ExchangeRecord) Tally {
	failed := 0
	for _, rec := range records {
		if rec.Status != httpclient.StatusCompleted.String() {
			failed++
		}
	}
	return newTally(len(records), failed)
}
