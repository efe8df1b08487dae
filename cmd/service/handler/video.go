package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "github.com/explainium/explainium/app/logic/v1"
	"github.com/explainium/explainium/app/response"
	"github.com/explainium/explainium/pkg/errors"
)

func (s *HttpSrv) UploadVideo(c *gin.Context) {
	filename, data, err := readUpload(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewVideoLogic(c, s.Core).UploadVideo(filename, data)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) ListVideoFrames(c *gin.Context) {
	res, err := v1.NewVideoLogic(c, s.Core).ListFrames(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) GetVideoFrame(c *gin.Context) {
	frameIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.APIError(c, errors.New("GetVideoFrame.ParseIndex", errors.ERROR_INVALID_ARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	res, err := v1.NewVideoLogic(c, s.Core).GetFrame(c.Param("id"), frameIndex)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}
