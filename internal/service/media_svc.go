package service

import (
	"context"
	"sync"

	"sublet_hub_v1_202608/internal/model"
)

// ==================== 外部服务依赖 ====================

// MediaUploader 上传能力，由 StorageProvider 满足
type MediaUploader interface {
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)
}

// ==================== 服务实现 ====================

// MediaService 媒体归并服务
// 提交时把保留媒体与新上传媒体归并成最终有序媒体列表
type MediaService struct {
	storage MediaUploader
}

// NewMediaService 创建媒体归并服务
func NewMediaService(storage MediaUploader) *MediaService {
	return &MediaService{storage: storage}
}

// ReconciledMedia 归并结果
type ReconciledMedia struct {
	Photos   []string // 保留在前，新上传按暂存顺序追加
	VideoURL string   // 至多一个：新上传优先，否则沿用保留视频
}

// Reconcile 归并媒体
// 所有新照片并发上传，整批等待；任一失败则整个提交中止，不落任何部分结果
// 视频独立上传，草稿本身不被修改
func (s *MediaService) Reconcile(ctx context.Context, d *model.Draft) (*ReconciledMedia, error) {
	result := &ReconciledMedia{}

	// 1. 保留媒体直接透传（顺序不变）
	for _, m := range d.RetainedMedia {
		if m.IsVideo {
			result.VideoURL = m.URL
		} else {
			result.Photos = append(result.Photos, m.URL)
		}
	}

	// 2. 拆分新上传
	var newPhotos []model.StagedMedia
	var newVideo *model.StagedMedia
	for i := range d.NewMedia {
		m := d.NewMedia[i]
		if m.IsVideo {
			newVideo = &m
		} else {
			newPhotos = append(newPhotos, m)
		}
	}

	// 3. 照片批量并发上传，按暂存顺序写入结果槽位
	if len(newPhotos) > 0 {
		urls := make([]string, len(newPhotos))
		errs := make([]error, len(newPhotos))

		var wg sync.WaitGroup
		for i := range newPhotos {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				m := newPhotos[idx]
				url, err := s.storage.Upload(ctx, m.Data, m.Filename, m.ContentType)
				urls[idx] = url
				errs[idx] = err
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				return nil, &UploadError{Filename: newPhotos[i].Filename, Err: err}
			}
		}
		result.Photos = append(result.Photos, urls...)
	}

	// 4. 视频独立上传，新视频覆盖保留视频
	if newVideo != nil {
		url, err := s.storage.Upload(ctx, newVideo.Data, newVideo.Filename, newVideo.ContentType)
		if err != nil {
			return nil, &UploadError{Filename: newVideo.Filename, Err: err}
		}
		result.VideoURL = url
	}

	return result, nil
}
