package services

import "errors"

// Movie service errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrChartNoData    = errors.New("chart has no data")
	ErrDatasetMissing = errors.New("dataset not loaded")
)
