package dtos

type ResetResponse struct {
	COIs       int `json:"cois"`
	Properties int `json:"properties"`
}
