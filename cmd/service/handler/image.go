package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/explainium/explainium/app/logic/v1"
	"github.com/explainium/explainium/app/response"
)

func (s *HttpSrv) UploadImage(c *gin.Context) {
	filename, data, err := readUpload(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewImageLogic(c, s.Core).UploadImage(filename, data)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}
