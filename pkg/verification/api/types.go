package api

type MessageResponse struct {
	Message string `json:"message"`
}
