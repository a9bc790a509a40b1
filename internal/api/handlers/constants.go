package handlers

const (
	defaultHistoryPageSize = 20  // Page size when ?limit= is absent
	maxHistoryPageSize     = 100 // Maximum page size for generation history
)
