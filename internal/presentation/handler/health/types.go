package health

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
