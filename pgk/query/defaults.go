package query

import (
	"github.com/jinzhu/copier"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
)

// NewQueryRequest query request prefilled from config
func NewQueryRequest() *models.QueryRequest {
	req := &models.QueryRequest{Kind: 1}
	if err := copier.Copy(req, &config.CF().Query); err != nil {
		logger.Log.Errorf("[query] copy defaults error: %s", err)
	}

	return req
}

// NewSearchRequest search request prefilled from the search section of config
func NewSearchRequest() *models.SearchRequest {
	req := &models.SearchRequest{}
	err := copier.CopyWithOption(req, &config.CF().Query, copier.Option{
		DeepCopy: true,
		FieldNameMapping: []copier.FieldNameMapping{
			{
				SrcType: config.QueryConfig{},
				DstType: models.SearchRequest{},
				Mapping: map[string]string{
					"SearchRelays":  "Relays",
					"SearchLimit":   "Limit",
					"SearchTimeout": "Timeout",
				},
			},
		},
	})
	if err != nil {
		logger.Log.Errorf("[query] copy defaults error: %s", err)
	}

	return req
}
