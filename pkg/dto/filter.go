package dto

type Filter struct {
	Limit   int    `query:"limit"`
	Page    int    `query:"page"`
	Status  string `query:"status"`
	Expired bool   `query:"-"`
}

type Pagination struct {
	Previous *string     `json:"previous"`
	Next     *string     `json:"next"`
	Records  interface{} `json:"records"`
}

type PaginationMetadata struct {
	TotalCount uint64 `json:"total_count"`
	Page       uint64 `json:"page"`
	Limit      int    `json:"limit"`
}
