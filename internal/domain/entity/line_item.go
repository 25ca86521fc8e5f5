package entity

// LineItem represents the cost of a single AWS service for one billing period.
type LineItem struct {
	Service  string `json:"service"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	// Period é o rótulo "início to fim" do intervalo; vazio quando ausente.
	Period string `json:"period,omitempty"`
}

// OrgUnitInfo identifies an organizational unit for grouped reports.
type OrgUnitInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OUResult associa uma OU aos seus line items. Um slice de OUResult
// preserva a ordem em que as OUs foram retornadas pela API.
type OUResult struct {
	OU    OrgUnitInfo `json:"ou"`
	Items []LineItem  `json:"items"`
}

// AccountFilter restricts a billing query to the given linked accounts.
// A nil filter means no restriction.
type AccountFilter []string
