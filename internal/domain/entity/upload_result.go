package entity

type ImageUploadResult struct {
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Bucket   string `json:"bucket"`
	Object   string `json:"object"`
}
