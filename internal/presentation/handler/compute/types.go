package compute

type fibonacciResponse struct {
	N       uint32 `json:"n"`
	Result  uint64 `json:"result"`
	Message string `json:"message"`
}
