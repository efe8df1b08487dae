package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/pkg/errors"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}

// readUpload pulls the multipart "file" part into memory. Size limits are
// enforced again by validation, this is just the transport read.
func readUpload(c *gin.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("handler.readUpload.FormFile", errors.ERROR_INVALID_ARGUMENT, err).Code(http.StatusBadRequest)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, errors.New("handler.readUpload.Open", errors.ERROR_INVALID_ARGUMENT, err).Code(http.StatusBadRequest)
	}
	defer func(f multipart.File) {
		_ = f.Close()
	}(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, errors.New("handler.readUpload.ReadAll", errors.ERROR_INTERNAL, err)
	}

	return fileHeader.Filename, data, nil
}
