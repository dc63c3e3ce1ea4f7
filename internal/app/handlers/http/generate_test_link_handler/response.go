package generate_test_link_handler

// GenerateTestLinkRequest структура для данных запроса
type GenerateTestLinkRequest struct {
	Username string `json:"username" validate:"required"`
	TestID   int    `json:"test_id" validate:"required,gt=0"`
}

// GenerateTestLinkResponse структура для ответа
type GenerateTestLinkResponse struct {
	Link      string `json:"link"`
	QRCodeURL string `json:"qr_code_url"`
}
