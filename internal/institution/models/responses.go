package models

// InstitutionDetail is an institution together with its owned services, as
// returned by detail lookups and name search. Both transports marshal this
// struct directly so business payloads stay byte-identical.
type InstitutionDetail struct {
	Institution
	Services []MedicalService `json:"services"`
}

// RemoveResult confirms a deletion, referencing the removed id.
type RemoveResult struct {
	Message string `json:"message"`
}
