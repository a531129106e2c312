package ask

// askDTO is the request body of POST /ask. Absent and null fields both
// decode to empty strings and fail validation with a field message.
type askDTO struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

// askResponse is the success body of POST /ask.
type askResponse struct {
	Answer string `json:"answer"`
}
