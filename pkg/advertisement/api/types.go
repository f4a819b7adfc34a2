package api

type AdvertisementRequest struct {
	ID         int64  `json:"id,omitempty"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	ViewsCount int64  `json:"views_count"`
	Position   *int32 `json:"position"`
}

type AdvertisementResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	ViewsCount int64  `json:"views_count"`
	Position   *int32 `json:"position"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
