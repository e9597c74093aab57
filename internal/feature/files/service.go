// Package files 保存商品图片到本地目录并按文件名读取。
package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"catalog-api/internal/core/errs"
	"catalog-api/pkg/utils"
)

var ErrEmpty = errors.New("file is empty")

// 按声明的 Content-Type 子类型过滤；列表保持原样（含 jpng）
var allowedSubtypes = []string{"jpg", "jpng", "png", "gif"}

// Filter 返回是否接受该文件；nil 为错误，类型不符只是拒绝
func Filter(fh *multipart.FileHeader) (bool, error) {
	if fh == nil {
		return false, ErrEmpty
	}
	return slices.Contains(allowedSubtypes, subtype(fh.Header.Get("Content-Type"))), nil
}

func subtype(contentType string) string {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	_, sub, ok := strings.Cut(ct, "/")
	if !ok {
		return ""
	}
	return strings.ToLower(sub)
}

type Service struct {
	dir      string
	baseURL  string
	maxBytes int64
	log      *zap.Logger
}

// NewService baseURL 为对外 API 地址，如 http://host/api/v1
func NewService(dir, baseURL string, maxUploadMB int, log *zap.Logger) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 5
	}
	return &Service{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: int64(maxUploadMB) << 20,
		log:      log.Named("files"),
	}, nil
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Save 以随机名落盘，返回可公开访问的地址
func (s *Service) Save(fh *multipart.FileHeader) (string, error) {
	ok, err := Filter(fh)
	if err != nil || !ok {
		return "", errs.BadRequest("make sure that the file is an image")
	}
	if fh.Size > s.maxBytes {
		return "", errs.BadRequest(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	name := utils.NewID() + "." + subtype(fh.Header.Get("Content-Type"))
	src, err := fh.Open()
	if err != nil {
		return "", errs.BadRequest("cannot read uploaded file")
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		s.log.Error("create image file failed", zap.Error(err))
		return "", errs.Internal("unexpected error, check server logs", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		s.log.Error("write image file failed", zap.Error(err))
		return "", errs.Internal("unexpected error, check server logs", err)
	}
	if err := dst.Close(); err != nil {
		return "", errs.Internal("unexpected error, check server logs", err)
	}
	s.log.Info("image stored", zap.String("name", name), zap.Int64("size", fh.Size))
	return s.baseURL + "/files/product/" + name, nil
}

// Path 返回已保存图片的磁盘路径；只接受纯文件名
func (s *Service) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errs.BadRequest(fmt.Sprintf("no product found with image %s", name))
	}
	p := filepath.Join(s.dir, name)
	st, err := os.Stat(p)
	if err != nil || st.IsDir() {
		return "", errs.BadRequest(fmt.Sprintf("no product found with image %s", name))
	}
	return p, nil
}
