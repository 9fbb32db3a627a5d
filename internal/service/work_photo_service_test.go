package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
)

func setupWorkPhoto(annotator PhotoAnnotator) (*testEnv, *workPhotoService) {
	env := newTestEnv()
	env.assignments.items["asg-1"] = &model.Assignment{
		AssignmentID:      "asg-1",
		EmployeeProfileID: "emp-1",
		StartAt:           testNow,
		EndAt:             testNow.Add(4 * time.Hour),
		Status:            model.AssignmentPlanned,
		EstablishmentName: "中心店",
		AssignmentAddress: "解放路 1 号",
	}
	cfg := &config.AttendanceConfig{PhotoMaxBytes: 1 << 20, MaxPhotosPerPost: 3}
	svc := NewWorkPhotoService(env.repo, env.pinger, env.storage, annotator, cfg, time.UTC, env.logger).(*workPhotoService)
	svc.now = func() time.Time { return testNow }
	return env, svc
}

func photoFiles(n int) []dto.UploadedFile {
	files := make([]dto.UploadedFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, dto.UploadedFile{Filename: "IMG.PNG", ContentType: "image/png", Data: []byte("raw-image")})
	}
	return files
}

func TestWorkPhotoService_Upload_AnnotatesAndSaves(t *testing.T) {
	env, svc := setupWorkPhoto(&fakeAnnotator{})
	lat, lng := -3.73, -38.52

	out, err := svc.Upload(context.Background(), "asg-1", &dto.UploadWorkPhotosRequest{
		Phase:     model.PhaseBefore,
		Latitude:  &lat,
		Longitude: &lng,
		Files:     photoFiles(2),
	}, "emp-1")
	if err != nil {
		t.Fatalf("Upload 应成功: %v", err)
	}
	if len(out) != 2 || len(env.photos.photos) != 2 {
		t.Fatalf("期望 2 张照片入库，实际 out=%d db=%d", len(out), len(env.photos.photos))
	}
	for _, p := range env.photos.photos {
		if !strings.HasPrefix(p.StoragePath, "emp-1/asg-1/before-") || !strings.HasSuffix(p.StoragePath, ".jpg") {
			t.Errorf("对象路径不符: %s", p.StoragePath)
		}
		if p.PhotoURL != env.storage.PublicURL(p.StoragePath) {
			t.Errorf("PhotoURL 应为公开地址，实际=%s", p.PhotoURL)
		}
		if p.LocationName != "中心店" {
			t.Errorf("未提供地点时应使用排班快照，实际=%s", p.LocationName)
		}
		if p.Latitude == nil || *p.Latitude != lat {
			t.Error("应保存拍摄位置")
		}
		if data := env.storage.objects[p.StoragePath]; !bytes.HasPrefix(data, []byte("stamped:")) {
			t.Errorf("上传的应是水印后的图片，实际=%q", data)
		}
	}
}

func TestWorkPhotoService_Upload_AnnotatorFailureUploadsOriginal(t *testing.T) {
	env, svc := setupWorkPhoto(&fakeAnnotator{err: errors.New("unsupported format")})

	out, err := svc.Upload(context.Background(), "asg-1", &dto.UploadWorkPhotosRequest{
		Phase: model.PhaseAfter,
		Files: photoFiles(1),
	}, "emp-1")
	if err != nil {
		t.Fatalf("Upload 应成功: %v", err)
	}
	p := env.photos.photos[out[0].ID]
	if !strings.HasSuffix(p.StoragePath, ".png") {
		t.Errorf("原图上传应保留扩展名，实际=%s", p.StoragePath)
	}
	if string(env.storage.objects[p.StoragePath]) != "raw-image" {
		t.Error("水印失败时应上传原图")
	}
}

func TestWorkPhotoService_Upload_Validation(t *testing.T) {
	_, svc := setupWorkPhoto(nil)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "asg-1", &dto.UploadWorkPhotosRequest{Phase: "DURING", Files: photoFiles(1)}, "emp-1"); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("期望 ErrInvalidPhase，实际: %v", err)
	}
	if _, err := svc.Upload(ctx, "asg-1", &dto.UploadWorkPhotosRequest{Phase: model.PhaseBefore}, "emp-1"); !errors.Is(err, ErrNoPhotos) {
		t.Errorf("期望 ErrNoPhotos，实际: %v", err)
	}
	if _, err := svc.Upload(ctx, "asg-1", &dto.UploadWorkPhotosRequest{Phase: model.PhaseBefore, Files: photoFiles(4)}, "emp-1"); !errors.Is(err, ErrTooManyPhotos) {
		t.Errorf("期望 ErrTooManyPhotos，实际: %v", err)
	}
	big := []dto.UploadedFile{{Filename: "a.jpg", Data: make([]byte, 2<<20)}}
	if _, err := svc.Upload(ctx, "asg-1", &dto.UploadWorkPhotosRequest{Phase: model.PhaseBefore, Files: big}, "emp-1"); !errors.Is(err, ErrPhotoTooLarge) {
		t.Errorf("期望 ErrPhotoTooLarge，实际: %v", err)
	}
	if _, err := svc.Upload(ctx, "asg-1", &dto.UploadWorkPhotosRequest{Phase: model.PhaseBefore, Files: photoFiles(1)}, "emp-2"); !errors.Is(err, ErrNotAssignmentOwner) {
		t.Errorf("期望 ErrNotAssignmentOwner，实际: %v", err)
	}
}

func TestWorkPhotoService_Upload_DBFailureRemovesObjects(t *testing.T) {
	env, svc := setupWorkPhoto(nil)
	env.photos.createErr = errors.New("insert failed")

	if _, err := svc.Upload(context.Background(), "asg-1", &dto.UploadWorkPhotosRequest{
		Phase: model.PhaseBefore,
		Files: photoFiles(2),
	}, "emp-1"); err == nil {
		t.Fatal("期望返回错误")
	}
	if len(env.storage.objects) != 0 {
		t.Errorf("未入库的对象应被删除，剩余=%d", len(env.storage.objects))
	}
	if len(env.tasks.tasks) != 0 {
		t.Error("删除成功时不应入队清理任务")
	}
}

func TestWorkPhotoService_Delete_StorageFailureQueuesTask(t *testing.T) {
	env, svc := setupWorkPhoto(nil)
	env.photos.photos["p1"] = &model.AssignmentWorkPhoto{
		WorkPhotoID: "p1", AssignmentID: "asg-1", EmployeeProfileID: "emp-1", StoragePath: "emp-1/asg-1/before-1.jpg",
	}
	env.storage.removeErr = errors.New("oss unavailable")

	if err := svc.Delete(context.Background(), "p1", "emp-1", model.RoleCollaborator); err != nil {
		t.Fatalf("对象存储失败不应影响删除结果: %v", err)
	}
	if _, ok := env.photos.photos["p1"]; ok {
		t.Error("照片记录应已删除")
	}
	if keys := env.tasks.keys(); len(keys) != 1 || keys[0] != "emp-1/asg-1/before-1.jpg" {
		t.Errorf("期望对象加入清理队列，实际=%v", keys)
	}
}

func TestWorkPhotoService_Delete_Forbidden(t *testing.T) {
	env, svc := setupWorkPhoto(nil)
	env.photos.photos["p1"] = &model.AssignmentWorkPhoto{WorkPhotoID: "p1", AssignmentID: "asg-1", EmployeeProfileID: "emp-1"}

	if err := svc.Delete(context.Background(), "p1", "emp-2", model.RoleCollaborator); !errors.Is(err, ErrNotAssignmentOwner) {
		t.Errorf("期望 ErrNotAssignmentOwner，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), "p1", "admin-1", model.RoleAdmin); err != nil {
		t.Errorf("管理员删除应成功: %v", err)
	}
}

func TestBuildObjectKey(t *testing.T) {
	key := buildObjectKey("u1", "a1", model.PhaseAfter, time.UnixMilli(1700000000123), "webp")
	if !strings.HasPrefix(key, "u1/a1/after-1700000000123-") || !strings.HasSuffix(key, ".webp") {
		t.Errorf("对象路径格式不符: %s", key)
	}
	if photoExt("x.GIF") != "jpg" || photoExt("x.JPEG") != "jpeg" {
		t.Error("扩展名处理不符")
	}
}
