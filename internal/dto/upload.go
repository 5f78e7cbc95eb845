package dto

// PresignVideoRequest asks for a direct-upload URL for a video file.
type PresignVideoRequest struct {
	Filename string `json:"filename" validate:"required"`
}

// PresignImageRequest asks for a direct-upload URL for a course image.
type PresignImageRequest struct {
	Filename string `json:"filename" validate:"required"`
}
