package syndicate

type CreateInput struct {
	Name           string   `json:"name"`
	BorrowerID     uint64   `json:"borrower_id"`
	LeadInvestorID uint64   `json:"lead_investor_id"`
	MemberIDs      []uint64 `json:"member_ids"`
}
