package services

const (
	// maxHistoryPageSize caps how many generation logs one query returns
	maxHistoryPageSize = 100
)
