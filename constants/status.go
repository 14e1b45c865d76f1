package constants

// ExtractStatus records which path produced a document record.
type ExtractStatus string

// Stable values (store these exact strings in the analysis history).
const (
	ExtractStatusOK       ExtractStatus = "LLM_OK"           // backend returned a decodable object
	ExtractStatusRepaired ExtractStatus = "LLM_REPAIRED"     // object decoded only after repair
	ExtractStatusDegraded ExtractStatus = "LLM_DEGRADED"     // undecodable response kept in notes
	ExtractStatusKeyword  ExtractStatus = "KEYWORD_FALLBACK" // backend unavailable, keyword search used
)
