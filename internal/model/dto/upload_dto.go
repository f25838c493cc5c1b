package dto

// UploadImagesResponse 帖子图片上传结果
type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}

// AvatarResponse 头像上传结果
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
