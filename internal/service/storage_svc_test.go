package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// ==================== 工厂测试 ====================

func TestNewStorageProvider_Unknown(t *testing.T) {
	_, err := NewStorageProvider(&StorageConfig{Provider: "ftp"})
	if err == nil {
		t.Error("未知提供者应该报错")
	}
}

func TestNewStorageProvider_Local(t *testing.T) {
	provider, err := NewStorageProvider(&StorageConfig{
		Provider: "local",
		LocalDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewStorageProvider() error = %v", err)
	}
	if _, ok := provider.(*LocalStorage); !ok {
		t.Errorf("provider 类型 = %T, want *LocalStorage", provider)
	}
}

// ==================== 对象 key 测试 ====================

func TestGenerateObjectKey(t *testing.T) {
	key := generateObjectKey("listings", "photo.png")

	// listings/yyyy/mm/dd/uuid.png
	pattern := regexp.MustCompile(`^listings/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.png$`)
	if !pattern.MatchString(key) {
		t.Errorf("key 格式不对: %s", key)
	}

	// 无扩展名回退 .jpg
	key = generateObjectKey("", "noext")
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("应回退 .jpg: %s", key)
	}
	if strings.HasPrefix(key, "/") {
		t.Errorf("无 basePath 时不应以 / 开头: %s", key)
	}

	// key 不重复
	if generateObjectKey("", "a.jpg") == generateObjectKey("", "a.jpg") {
		t.Error("同名文件应生成不同 key")
	}
}

// ==================== 本地存储测试 ====================

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(&StorageConfig{
		LocalDir: dir,
		LocalURL: "http://localhost:8080/uploads/",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	ctx := context.Background()

	url, err := storage.Upload(ctx, []byte("fake-image"), "room.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/") {
		t.Errorf("url = %s", url)
	}

	// 文件落盘
	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("读取落盘文件失败: %v", err)
	}
	if string(data) != "fake-image" {
		t.Errorf("文件内容 = %s", data)
	}

	// 删除后文件消失
	if err := storage.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Error("删除后文件应不存在")
	}
}

func TestLocalStorage_DeleteForeignURL(t *testing.T) {
	storage, err := NewLocalStorage(&StorageConfig{LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}

	if err := storage.Delete(context.Background(), "https://elsewhere.example.com/x.jpg"); err == nil {
		t.Error("无法解析的 URL 应该报错")
	}
}

// ==================== S3 URL 解析测试 ====================

func TestS3Storage_PublicURLAndExtractKey(t *testing.T) {
	s := &S3Storage{bucket: "sublet-media", region: "us-east-1"}

	url := s.publicURL("2026/08/30/abc.jpg")
	want := "https://sublet-media.s3.us-east-1.amazonaws.com/2026/08/30/abc.jpg"
	if url != want {
		t.Errorf("publicURL = %s, want %s", url, want)
	}
	if key := s.extractKey(url); key != "2026/08/30/abc.jpg" {
		t.Errorf("extractKey = %s", key)
	}

	// CDN 域名优先
	cdn := &S3Storage{bucket: "sublet-media", region: "us-east-1", cdnDomain: "cdn.sublethub.com"}
	url = cdn.publicURL("2026/08/30/abc.jpg")
	if url != "https://cdn.sublethub.com/2026/08/30/abc.jpg" {
		t.Errorf("publicURL = %s", url)
	}
	if key := cdn.extractKey(url); key != "2026/08/30/abc.jpg" {
		t.Errorf("extractKey = %s", key)
	}
}
