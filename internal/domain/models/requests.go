package models

// HistoryRequest bounds the number of records returned by the history API.
type HistoryRequest struct {
	Limit int `query:"limit" default:"50" validate:"gte=1,lte=500"`
}

// CandlesRequest selects the klines window for technical analysis reads.
type CandlesRequest struct {
	Symbol   string `query:"symbol" validate:"omitempty,alphanum"`
	Interval string `query:"interval" default:"1h" validate:"omitempty,oneof=15m 1h 4h 1d"`
	Limit    int    `query:"limit" default:"100" validate:"gte=1,lte=1000"`
}
