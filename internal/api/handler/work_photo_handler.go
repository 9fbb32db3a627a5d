package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/service"
	"flowdesks/backend/pkg/response"
)

// 表单中照片文件字段名
const photoFormField = "photos"

// WorkPhotoHandler 工作照片 HTTP 处理器
type WorkPhotoHandler struct {
	photoSvc service.WorkPhotoService
}

// NewWorkPhotoHandler 创建 WorkPhotoHandler
func NewWorkPhotoHandler(photoSvc service.WorkPhotoService) *WorkPhotoHandler {
	return &WorkPhotoHandler{photoSvc: photoSvc}
}

// UploadPhotos 上传施工前 / 施工后照片（multipart）
// POST /api/v1/assignments/:id/photos
func (h *WorkPhotoHandler) UploadPhotos(c *gin.Context) {
	var req dto.UploadWorkPhotosRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, 10001, "请使用 multipart/form-data 上传")
		return
	}
	files, err := readUploadedFiles(form.File[photoFormField])
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return
	}
	req.Files = files

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	photos, err := h.photoSvc.Upload(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handlePhotoError(c, err)
		return
	}

	response.Created(c, gin.H{"list": photos})
}

// ListPhotos 排班的工作照片
// GET /api/v1/assignments/:id/photos
func (h *WorkPhotoHandler) ListPhotos(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	photos, err := h.photoSvc.List(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		h.handlePhotoError(c, err)
		return
	}

	response.OK(c, gin.H{"list": photos})
}

// DeletePhoto 删除工作照片
// DELETE /api/v1/work-photos/:id
func (h *WorkPhotoHandler) DeletePhoto(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.photoSvc.Delete(c.Request.Context(), c.Param("id"), userID, role); err != nil {
		h.handlePhotoError(c, err)
		return
	}

	response.OK(c, nil)
}

func readUploadedFiles(headers []*multipart.FileHeader) ([]dto.UploadedFile, error) {
	files := make([]dto.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, dto.UploadedFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func (h *WorkPhotoHandler) handlePhotoError(c *gin.Context, err error) {
	if writeCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 20001, "排班不存在")
	case errors.Is(err, service.ErrWorkPhotoNotFound):
		response.NotFound(c, 22001, "工作照片不存在")
	case errors.Is(err, service.ErrNotAssignmentOwner), errors.Is(err, service.ErrAssignmentForbidden):
		response.Forbidden(c, 10003, err.Error())
	case errors.Is(err, service.ErrAssignmentCancelled):
		response.Conflict(c, 21005, "排班已取消")
	case errors.Is(err, service.ErrInvalidPhase),
		errors.Is(err, service.ErrNoPhotos),
		errors.Is(err, service.ErrTooManyPhotos),
		errors.Is(err, service.ErrInvalidReading):
		response.BadRequest(c, 22002, err.Error())
	case errors.Is(err, service.ErrPhotoTooLarge):
		response.PayloadTooLarge(c, 22003, "照片大小超出限制")
	case errors.Is(err, service.ErrStorageUnavailable):
		response.ServiceUnavailable(c, 50302, "对象存储未配置")
	default:
		response.InternalError(c)
	}
}
