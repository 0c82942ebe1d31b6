package model

type ImportItem struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	Score      *float64 `json:"score"`
	ExternalId int64    `json:"externalId"`
}

type ImportOutcome string

const (
	OutcomeImported ImportOutcome = "imported"
	OutcomeUpdated  ImportOutcome = "updated"
	OutcomeSkipped  ImportOutcome = "skipped"
	OutcomeNotFound ImportOutcome = "not_found"
)

type ImportItemResult struct {
	Title          string        `json:"title"`
	Type           string        `json:"type"`
	ResolvedStatus string        `json:"resolvedStatus"`
	MatchedMediaId int64         `json:"matchedMediaId,omitempty"`
	Outcome        ImportOutcome `json:"outcome"`
	Reason         string        `json:"reason,omitempty"`
}

type ImportSummary struct {
	Imported int                `json:"imported"`
	Failed   int                `json:"failed"`
	NotFound int                `json:"notFound"`
	Total    int                `json:"total"`
	Details  []ImportItemResult `json:"details"`
}

//------------------------------------
//------------------------------------

type ImportJob struct {
	JobId     string       `json:"jobId"`
	UserId    int64        `json:"userId"`
	UserEmail string       `json:"userEmail"`
	Username  string       `json:"username"`
	Items     []ImportItem `json:"items"`
}

type ImportProgress struct {
	JobId     string `json:"jobId"`
	State     string `json:"state"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

const (
	ImportStateQueued     = "queued"
	ImportStateProcessing = "processing"
	ImportStateCompleted  = "completed"
	ImportStateFailed     = "failed"
)
