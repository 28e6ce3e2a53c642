package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// SaveImage 落盘上传图片，返回对外可访问的相对路径 /uploads/<sub>/<uuid>.<ext>
func SaveImage(c *gin.Context, fh *multipart.FileHeader, baseDir, sub string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	dir := filepath.Join(baseDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return path.Join("/uploads", sub, name), nil
}
