package entity

// BillingReport agrega o resultado de uma execução para exportação.
// Exatamente um de Items ou ByOU é preenchido.
type BillingReport struct {
	AccountID string     `json:"account_id,omitempty"`
	OUID      string     `json:"ou_id,omitempty"`
	Period    string     `json:"period,omitempty"`
	Items     []LineItem `json:"items,omitempty"`
	ByOU      []OUResult `json:"by_ou,omitempty"`
}

// IsGrouped reports whether the report is grouped by organizational unit.
func (r BillingReport) IsGrouped() bool {
	return r.ByOU != nil
}
