package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "explainium_"

const (
	TABLE_DOCUMENT               = TableName("document")
	TABLE_KNOWLEDGE_ENTITY       = TableName("knowledge_entity")
	TABLE_CONTENT_CATEGORY       = TableName("content_category")
	TABLE_KEY_PHRASE             = TableName("key_phrase")
	TABLE_DOCUMENT_STRUCTURE     = TableName("document_structure")
	TABLE_KNOWLEDGE_RELATIONSHIP = TableName("knowledge_relationship")
	TABLE_VIDEO_FRAME            = TableName("video_frame")
)
