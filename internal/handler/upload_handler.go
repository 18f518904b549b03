package handler

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio/internal/logger"
)

const maxUploadSize = 20 << 20

// uploadKinds 上传子目录及其允许的文件扩展名
// 上传目录与站点同源直接提供，不接受 svg 等可携带脚本的格式
var uploadKinds = map[string][]string{
	"articles": {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	"gallery":  {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	"resume":   {".pdf", ".doc", ".docx"},
}

// UploadFile 处理上传请求，文件保存到 <uploadDir>/<kind>/ 并返回相对路径
func (a *API) UploadFile(c *gin.Context) {
	kind := c.Param("kind")
	allowed, ok := uploadKinds[kind]
	if !ok {
		respondError(c, http.StatusNotFound, "unknown upload kind")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		respondError(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !containsExt(allowed, ext) {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("file type %q not allowed for %s", ext, kind))
		return
	}

	targetDir := filepath.Join(a.uploadDir, kind)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		a.respondServiceError(c, err, "failed to create upload directory")
		return
	}

	// 生成唯一文件名
	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(targetDir, name)); err != nil {
		a.respondServiceError(c, err, "failed to save file")
		return
	}

	relative := path.Join(kind, name)
	a.log.Info("file uploaded", logger.String("path", relative), logger.Int("bytes", int(file.Size)))
	c.JSON(http.StatusCreated, gin.H{
		"message": "uploaded",
		"path":    relative,
		"url":     a.mediaURL(relative),
	})
}

func containsExt(allowed []string, ext string) bool {
	for _, candidate := range allowed {
		if candidate == ext {
			return true
		}
	}
	return false
}
