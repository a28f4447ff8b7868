package types

import "time"

// Operation names a backend mutation applied to a selection.
type Operation string

const (
	OpEncrypt Operation = "encrypt"
	OpShred   Operation = "shred"
)

// BatchResult holds the outcome of one remote request of a batch
type BatchResult struct {
	Identity   string `json:"identity"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// OK reports whether the backend accepted the request.
func (r BatchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Report aggregates the results of a batch in the order requests were issued.
type Report struct {
	ID        string        `json:"id"`
	Operation Operation     `json:"operation"`
	Results   []BatchResult `json:"results"`
	Started   time.Time     `json:"started"`
	Finished  time.Time     `json:"finished"`
}

// Failed returns the number of results that were not successful.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}
