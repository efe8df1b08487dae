package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/explainium/explainium/app/logic/v1"
	"github.com/explainium/explainium/app/response"
	"github.com/explainium/explainium/pkg/types"
	"github.com/explainium/explainium/pkg/utils"
)

type SearchEntitiesRequest struct {
	Query         string   `json:"query" form:"query"`
	Labels        []string `json:"labels" form:"labels"`
	MinConfidence float64  `json:"min_confidence" form:"min_confidence"`
	Limit         uint64   `json:"limit" form:"limit"`
}

func (s *HttpSrv) SearchKnowledgeEntities(c *gin.Context) {
	var (
		err error
		req SearchEntitiesRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewKnowledgeLogic(c, s.Core).SearchEntities(types.SearchEntityOptions{
		Query:         req.Query,
		Labels:        req.Labels,
		MinConfidence: req.MinConfidence,
		Limit:         req.Limit,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) KnowledgeStats(c *gin.Context) {
	stats, err := v1.NewKnowledgeLogic(c, s.Core).Stats()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, stats)
}
