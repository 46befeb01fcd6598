package httpapi

// RegisterCharityRequest is the body of POST /charities.
type RegisterCharityRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	MetadataPointer string `json:"metadata_pointer"`
}

// SetTokenSupportRequest is the body of PUT /admin/tokens/{address}.
type SetTokenSupportRequest struct {
	Supported bool `json:"supported"`
}

// DonateRequest is the body of POST /donations.
type DonateRequest struct {
	Charity string `json:"charity"`
	Token   string `json:"token"`
	Amount  uint64 `json:"amount"`
	Message string `json:"message"`
}

// TransferCredentialRequest is the body of POST /credentials/{id}/transfer.
type TransferCredentialRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WithdrawRequest is the body of POST /admin/withdraw.
type WithdrawRequest struct {
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}
