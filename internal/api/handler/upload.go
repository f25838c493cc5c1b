package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// Images 上传帖子图片，字段名 files，最多 3 张
// POST /api/v1/uploads/images
func (h *UploadHandler) Images(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.ParamError(c, "Invalid multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		handleServiceError(c, service.ErrNoFiles)
		return
	}
	// 数量超限时不读取文件内容
	if limit := h.uploadService.MaxPostImages(); len(headers) > limit {
		handleServiceError(c, fmt.Errorf("%w: at most %d allowed", service.ErrTooManyFiles, limit))
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh, h.uploadService.MaxUploadSize())
		if err != nil {
			handleServiceError(c, err)
			return
		}
		files = append(files, f)
	}

	urls, err := h.uploadService.UploadPostImages(c.Request.Context(), userID, files)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, "Images uploaded", dto.UploadImagesResponse{URLs: urls})
}

// readUpload 读入内存，超过 maxSize 时返回 ErrFileTooLarge
func readUpload(fh *multipart.FileHeader, maxSize int64) (service.UploadFile, error) {
	if fh.Size > maxSize {
		return service.UploadFile{}, fmt.Errorf("%w: %s exceeds %d bytes", service.ErrFileTooLarge, fh.Filename, maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return service.UploadFile{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return service.UploadFile{}, fmt.Errorf("%w: %s exceeds %d bytes", service.ErrFileTooLarge, fh.Filename, maxSize)
	}
	return service.UploadFile{Filename: fh.Filename, Data: data}, nil
}
