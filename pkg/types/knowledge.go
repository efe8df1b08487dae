package types

import (
	"github.com/lib/pq"
)

// Entity labels recognized by the extraction stage.
const (
	ENTITY_LABEL_EQUIPMENT      = "equipment"
	ENTITY_LABEL_SAFETY_ITEM    = "safety-item"
	ENTITY_LABEL_PROCESS_STEP   = "process-step"
	ENTITY_LABEL_PERSONNEL_ROLE = "personnel-role"
)

// Document classification taxonomy.
const (
	CATEGORY_OPERATIONAL_PROCEDURE   = "operational-procedure"
	CATEGORY_SAFETY_DOCUMENTATION    = "safety-documentation"
	CATEGORY_TRAINING_MATERIAL       = "training-material"
	CATEGORY_TECHNICAL_SPECIFICATION = "technical-specification"
	CATEGORY_MAINTENANCE_GUIDE       = "maintenance-guide"
	CATEGORY_QUALITY_STANDARD        = "quality-standard"
)

type KnowledgeEntity struct {
	ID         int64   `json:"id" db:"id"`
	DocumentID string  `json:"document_id" db:"document_id"`
	Text       string  `json:"text" db:"text"`
	Label      string  `json:"label" db:"label"`
	Confidence float64 `json:"confidence" db:"confidence"`
	StartPos   int     `json:"start_pos" db:"start_pos"`
	EndPos     int     `json:"end_pos" db:"end_pos"`
	Context    string  `json:"context" db:"context"`
	CreatedAt  int64   `json:"created_at" db:"created_at"`
}

type ContentCategory struct {
	ID         int64          `json:"id" db:"id"`
	DocumentID string         `json:"document_id" db:"document_id"`
	Category   string         `json:"category" db:"category"`
	Confidence float64        `json:"confidence" db:"confidence"`
	Keywords   pq.StringArray `json:"keywords" db:"keywords"`
	CreatedAt  int64          `json:"created_at" db:"created_at"`
}

type KeyPhrase struct {
	ID         int64   `json:"id" db:"id"`
	DocumentID string  `json:"document_id" db:"document_id"`
	Phrase     string  `json:"phrase" db:"phrase"`
	Score      float64 `json:"score" db:"score"`
	CreatedAt  int64   `json:"created_at" db:"created_at"`
}

// Structure types produced by the text extractor.
const (
	STRUCTURE_TYPE_PAGE    = "page"
	STRUCTURE_TYPE_HEADING = "heading"
	STRUCTURE_TYPE_TABLE   = "table"
	STRUCTURE_TYPE_SECTION = "section"
)

type DocumentStructure struct {
	ID            int64  `json:"id" db:"id"`
	DocumentID    string `json:"document_id" db:"document_id"`
	StructureType string `json:"structure_type" db:"structure_type"`
	Content       string `json:"content" db:"content"`
	Position      int    `json:"position" db:"position"`
	Level         int    `json:"level" db:"level"`
	CreatedAt     int64  `json:"created_at" db:"created_at"`
}

// KnowledgeRelationship links two entities of the same document. Cross
// document relationships are not supported.
type KnowledgeRelationship struct {
	ID               int64   `json:"id" db:"id"`
	DocumentID       string  `json:"document_id" db:"document_id"`
	SourceEntityID   int64   `json:"source_entity_id" db:"source_entity_id"`
	TargetEntityID   int64   `json:"target_entity_id" db:"target_entity_id"`
	RelationshipType string  `json:"relationship_type" db:"relationship_type"`
	Confidence       float64 `json:"confidence" db:"confidence"`
	Context          string  `json:"context" db:"context"`
	CreatedAt        int64   `json:"created_at" db:"created_at"`
}

type SearchEntityOptions struct {
	Query         string
	Labels        []string
	MinConfidence float64
	Limit         uint64
}

// KnowledgeStats aggregates extraction results across all documents.
type KnowledgeStats struct {
	TotalDocuments       int64            `json:"total_documents"`
	TotalEntities        int64            `json:"total_entities"`
	TotalRelationships   int64            `json:"total_relationships"`
	TotalCategories      int64            `json:"total_categories"`
	EntityTypes          map[string]int64 `json:"entity_types"`
	RelationshipTypes    map[string]int64 `json:"relationship_types"`
	CategoryDistribution map[string]int64 `json:"category_distribution"`
	AverageConfidence    float64          `json:"average_confidence"`
}

type LabelCount struct {
	Label string `db:"label"`
	Count int64  `db:"count"`
}
