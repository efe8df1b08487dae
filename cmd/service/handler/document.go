package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/explainium/explainium/app/logic/v1"
	"github.com/explainium/explainium/app/response"
	"github.com/explainium/explainium/pkg/types"
	"github.com/explainium/explainium/pkg/utils"
)

func (s *HttpSrv) UploadDocument(c *gin.Context) {
	filename, data, err := readUpload(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	doc, err := v1.NewDocumentLogic(c, s.Core).UploadDocument(filename, data)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

type ListDocumentsRequest struct {
	Kind     string `json:"kind" form:"kind"`
	FileType string `json:"file_type" form:"file_type"`
	Status   string `json:"status" form:"status"`
	Page     uint64 `json:"page" form:"page"`
	PageSize uint64 `json:"pagesize" form:"pagesize"`
}

func (s *HttpSrv) ListDocuments(c *gin.Context) {
	var (
		err error
		req ListDocumentsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	opts := types.ListDocumentOptions{
		FileType: req.FileType,
	}
	if req.Kind != "" {
		opts.Kind = types.UploadKindFromString(req.Kind)
	}
	if req.Status != "" {
		status := types.DocumentStatus(req.Status)
		opts.Status = &status
	}

	list, err := v1.NewDocumentLogic(c, s.Core).ListDocuments(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) GetDocument(c *gin.Context) {
	doc, err := v1.NewDocumentLogic(c, s.Core).GetDocument(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

func (s *HttpSrv) GetDocumentContent(c *gin.Context) {
	content, err := v1.NewDocumentLogic(c, s.Core).GetContent(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, content)
}

type UpdateDocumentRequest struct {
	Filename string         `json:"filename"`
	Metadata types.Metadata `json:"metadata"`
}

func (s *HttpSrv) UpdateDocument(c *gin.Context) {
	var (
		err error
		req UpdateDocumentRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err = v1.NewDocumentLogic(c, s.Core).UpdateDocument(c.Param("id"), types.UpdateDocumentArgs{
		Filename: req.Filename,
		Metadata: req.Metadata,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteDocument(c *gin.Context) {
	if err := v1.NewDocumentLogic(c, s.Core).DeleteDocument(c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ListDocumentEntities(c *gin.Context) {
	res, err := v1.NewDocumentLogic(c, s.Core).ListEntities(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) ListDocumentCategories(c *gin.Context) {
	res, err := v1.NewDocumentLogic(c, s.Core).ListCategories(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) ListDocumentKeyPhrases(c *gin.Context) {
	res, err := v1.NewDocumentLogic(c, s.Core).ListKeyPhrases(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) ListDocumentStructures(c *gin.Context) {
	res, err := v1.NewDocumentLogic(c, s.Core).ListStructures(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) ListDocumentRelationships(c *gin.Context) {
	res, err := v1.NewDocumentLogic(c, s.Core).ListRelationships(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}
