package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/attendance"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/photo"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/pkg/storage"
)

// ── 工作照片模块业务错误 ──

var (
	ErrInvalidPhase       = errors.New("照片阶段必须为 BEFORE 或 AFTER")
	ErrNoPhotos           = errors.New("请至少上传一张照片")
	ErrTooManyPhotos      = errors.New("单次上传的照片数量超出限制")
	ErrPhotoTooLarge      = errors.New("照片大小超出限制")
	ErrWorkPhotoNotFound  = errors.New("工作照片不存在")
	ErrStorageUnavailable = errors.New("对象存储未配置")
)

// 同时进行的上传数
const uploadConcurrency = 4

var allowedPhotoExts = map[string]bool{"jpg": true, "jpeg": true, "png": true, "webp": true}

// WorkPhotoService 工作照片业务接口
type WorkPhotoService interface {
	Upload(ctx context.Context, assignmentID string, req *dto.UploadWorkPhotosRequest, callerID string) ([]dto.WorkPhotoResponse, error)
	List(ctx context.Context, assignmentID, callerID, role string) ([]dto.WorkPhotoResponse, error)
	Delete(ctx context.Context, photoID, callerID, role string) error
}

type workPhotoService struct {
	repo      *repository.Repository
	pinger    Pinger
	storage   storage.ObjectStorage
	annotator PhotoAnnotator
	cfg       *config.AttendanceConfig
	tz        *time.Location
	logger    *zap.Logger

	now func() time.Time
}

// NewWorkPhotoService 创建 WorkPhotoService 实例；annotator 为 nil 时照片原样上传
func NewWorkPhotoService(
	repo *repository.Repository,
	pinger Pinger,
	store storage.ObjectStorage,
	annotator PhotoAnnotator,
	cfg *config.AttendanceConfig,
	tz *time.Location,
	logger *zap.Logger,
) WorkPhotoService {
	if tz == nil {
		tz = time.UTC
	}
	return &workPhotoService{
		repo:      repo,
		pinger:    pinger,
		storage:   store,
		annotator: annotator,
		cfg:       cfg,
		tz:        tz,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Upload ──────────────────────

// uploadResult 单个文件的处理结果
type uploadResult struct {
	key         string
	contentType string
	err         error
}

func (s *workPhotoService) Upload(ctx context.Context, assignmentID string, req *dto.UploadWorkPhotosRequest, callerID string) ([]dto.WorkPhotoResponse, error) {
	if req.Phase != model.PhaseBefore && req.Phase != model.PhaseAfter {
		return nil, ErrInvalidPhase
	}
	if len(req.Files) == 0 {
		return nil, ErrNoPhotos
	}
	if s.cfg.MaxPhotosPerPost > 0 && len(req.Files) > s.cfg.MaxPhotosPerPost {
		return nil, ErrTooManyPhotos
	}
	for _, f := range req.Files {
		if s.cfg.PhotoMaxBytes > 0 && int64(len(f.Data)) > s.cfg.PhotoMaxBytes {
			return nil, ErrPhotoTooLarge
		}
	}
	geo := req.Reading()
	if err := attendance.ValidateReading(geo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	if a.EmployeeProfileID != callerID {
		return nil, ErrNotAssignmentOwner
	}
	if a.Status == model.AssignmentCancelled {
		return nil, ErrAssignmentCancelled
	}

	capturedAt := s.now()
	if req.CapturedAt != nil && !req.CapturedAt.IsZero() {
		capturedAt = *req.CapturedAt
	}
	snap := photoLocationSnapshot(a, req)
	meta := photo.CaptureMetadata{
		CapturedAt:      capturedAt,
		Timezone:        s.tz,
		LocationName:    snap.name,
		LocationAddress: snap.address,
	}
	if geo != nil {
		lat, lng := geo.Latitude, geo.Longitude
		meta.Latitude, meta.Longitude = &lat, &lng
		meta.AccuracyM, meta.HeadingDeg = geo.AccuracyM, geo.HeadingDeg
	}

	results := s.uploadAll(ctx, callerID, assignmentID, req.Phase, req.Files, meta)

	var uploaded []string
	var firstErr error
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		uploaded = append(uploaded, r.key)
	}
	if firstErr != nil {
		s.logger.Error("上传工作照片失败", zap.String("assignment_id", assignmentID), zap.Error(firstErr))
		s.removeObjects(ctx, uploaded, callerID)
		return nil, firstErr
	}

	out := make([]dto.WorkPhotoResponse, 0, len(results))
	for i, r := range results {
		row := &model.AssignmentWorkPhoto{
			AssignmentID:      assignmentID,
			EmployeeProfileID: callerID,
			Phase:             req.Phase,
			PhotoURL:          s.storage.PublicURL(r.key),
			StoragePath:       r.key,
			CapturedAt:        &capturedAt,
			LocationName:      snap.name,
			LocationAddress:   snap.address,
			LocationMapsURL:   snap.mapsURL,
		}
		if geo != nil {
			row.Latitude, row.Longitude = meta.Latitude, meta.Longitude
			row.AccuracyM, row.HeadingDeg = geo.AccuracyM, geo.HeadingDeg
		}

		if err := s.repo.WorkPhoto.Create(ctx, row); err != nil {
			s.logger.Error("保存工作照片记录失败",
				zap.String("assignment_id", assignmentID),
				zap.Int("saved", i),
				zap.Error(err),
			)
			// 尚未入库的对象不再有记录引用
			s.removeObjects(ctx, uploaded[i:], callerID)
			return nil, err
		}
		out = append(out, toWorkPhotoResponse(row))
	}

	s.logger.Info("工作照片已上传",
		zap.String("assignment_id", assignmentID),
		zap.String("phase", req.Phase),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// uploadAll 并发处理并上传全部文件，结果顺序与输入一致
func (s *workPhotoService) uploadAll(ctx context.Context, userID, assignmentID, phase string, files []dto.UploadedFile, meta photo.CaptureMetadata) []uploadResult {
	results := make([]uploadResult, len(files))
	sem := make(chan struct{}, uploadConcurrency)
	var wg sync.WaitGroup

	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, contentType, ext := s.prepare(files[i], meta)
			key := buildObjectKey(userID, assignmentID, phase, s.now(), ext)
			if err := s.storage.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
				results[i] = uploadResult{err: err}
				return
			}
			results[i] = uploadResult{key: key, contentType: contentType}
		}(i)
	}
	wg.Wait()
	return results
}

// prepare 叠加水印；无法解码的图片原样上传
func (s *workPhotoService) prepare(f dto.UploadedFile, meta photo.CaptureMetadata) ([]byte, string, string) {
	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(f.Data)
	}
	ext := photoExt(f.Filename)

	if s.annotator == nil {
		return f.Data, contentType, ext
	}
	res, err := s.annotator.Annotate(f.Data, contentType, meta)
	if err != nil {
		s.logger.Warn("照片水印失败，按原图上传", zap.String("filename", f.Filename), zap.Error(err))
		return f.Data, contentType, ext
	}
	if res.Annotated {
		return res.Data, res.ContentType, res.Ext
	}
	return res.Data, res.ContentType, ext
}

// buildObjectKey {userID}/{assignmentID}/{phase}-{unixms}-{rand6}.{ext}
func buildObjectKey(userID, assignmentID, phase string, at time.Time, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s/%s/%s-%d-%s.%s",
		userID, assignmentID, strings.ToLower(phase), at.UnixMilli(), suffix, ext)
}

// photoExt 取文件扩展名，仅接受 jpg/jpeg/png/webp，其余按 jpg
func photoExt(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if allowedPhotoExts[ext] {
		return ext
	}
	return "jpg"
}

type locationSnapshot struct {
	name, address, mapsURL string
}

// photoLocationSnapshot 表单未给出地点信息时使用排班上的地点快照
func photoLocationSnapshot(a *model.Assignment, req *dto.UploadWorkPhotosRequest) locationSnapshot {
	snap := locationSnapshot{
		name:    req.LocationName,
		address: req.LocationAddress,
		mapsURL: req.LocationMapsURL,
	}
	if snap.name == "" {
		snap.name = a.EstablishmentName
		if snap.name == "" && a.Location != nil {
			snap.name = a.Location.Name
		}
	}
	if snap.address == "" {
		snap.address = a.AssignmentAddress
		if snap.address == "" && a.Location != nil {
			snap.address = a.Location.Address
		}
	}
	if snap.mapsURL == "" {
		snap.mapsURL = a.AssignmentLocation
	}
	return snap
}

// ────────────────────── List ──────────────────────

func (s *workPhotoService) List(ctx context.Context, assignmentID, callerID, role string) ([]dto.WorkPhotoResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if !model.IsAdminRole(role) && a.EmployeeProfileID != callerID {
		return nil, ErrAssignmentForbidden
	}

	photos, err := s.repo.WorkPhoto.ListByAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询工作照片失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.WorkPhotoResponse, 0, len(photos))
	for i := range photos {
		out = append(out, toWorkPhotoResponse(&photos[i]))
	}
	return out, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 先删记录（以数据库为准），再尽力删除对象存储文件；失败时交给清理任务
func (s *workPhotoService) Delete(ctx context.Context, photoID, callerID, role string) error {
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return err
	}

	p, err := s.repo.WorkPhoto.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkPhotoNotFound
		}
		s.logger.Error("查询工作照片失败", zap.String("photo_id", photoID), zap.Error(err))
		return err
	}
	if !model.IsAdminRole(role) && p.EmployeeProfileID != callerID {
		return ErrNotAssignmentOwner
	}

	if err := s.repo.WorkPhoto.Delete(ctx, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkPhotoNotFound
		}
		s.logger.Error("删除工作照片失败", zap.String("photo_id", photoID), zap.Error(err))
		return err
	}

	if p.StoragePath != "" {
		s.removeObjects(ctx, []string{p.StoragePath}, callerID)
	}
	return nil
}

// removeObjects 尽力删除对象；失败只记日志并入队，不向调用方返回
func (s *workPhotoService) removeObjects(ctx context.Context, keys []string, callerID string) {
	if len(keys) == 0 {
		return
	}
	if s.storage != nil {
		err := s.storage.Remove(ctx, keys...)
		if err == nil {
			return
		}
		s.logger.Warn("删除对象存储文件失败，已加入清理队列", zap.Strings("keys", keys), zap.Error(err))
	}
	for _, key := range keys {
		task := &model.StorageCleanupTask{ObjectKey: key, Status: model.CleanupPending}
		task.CreatedBy = &callerID
		if err := s.repo.StorageTask.Create(ctx, task); err != nil {
			s.logger.Warn("对象清理任务入队失败", zap.String("object_key", key), zap.Error(err))
		}
	}
}

func toWorkPhotoResponse(p *model.AssignmentWorkPhoto) dto.WorkPhotoResponse {
	return dto.WorkPhotoResponse{
		ID:                p.WorkPhotoID,
		AssignmentID:      p.AssignmentID,
		EmployeeProfileID: p.EmployeeProfileID,
		Phase:             p.Phase,
		PhotoURL:          p.PhotoURL,
		CapturedAt:        formatTimePtr(p.CapturedAt),
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		AccuracyM:         p.AccuracyM,
		HeadingDeg:        p.HeadingDeg,
		LocationName:      p.LocationName,
		LocationAddress:   p.LocationAddress,
		LocationMapsURL:   p.LocationMapsURL,
		CreatedAt:         formatTime(p.CreatedAt),
	}
}
