package view

type UploadUrlRequest struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type UploadUrlResponse struct {
	FileId    string `json:"fileId"`
	UploadUrl string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	Filename  string `json:"filename"`
}

type ConfirmUploadRequest struct {
	FileId   string `json:"fileId"`
	FileKey  string `json:"fileKey"`
	Filename string `json:"filename"`
}

type ConfirmUploadResponse struct {
	BlockId string `json:"blockId"`
	TaskId  string `json:"taskId"`
}
