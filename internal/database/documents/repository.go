// Package documents provides database operations for harvested documents.
//
// # Usage
//
//	repo := documents.NewRepository(db)
//	err := repo.Upsert(etlName, version, doc)
//	doc, err := repo.Document("a1b2c3")
package documents

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/mapharvest/internal/datacite"
	"github.com/mrlokans/mapharvest/internal/entities"
)

// Repository handles all harvested document database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new documents repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert stores a document, replacing any earlier harvest of the same identifier.
func (r *Repository) Upsert(etlName, version string, doc *datacite.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc.Identifier.Value, err)
	}

	record := entities.HarvestedDocument{
		Identifier: doc.Identifier.Value,
		ETLName:    etlName,
		Version:    version,
		Title:      mainTitle(doc),
		Body:       string(body),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"etl_name", "version", "title", "body", "updated_at"}),
	}).Create(&record).Error
}

// Get retrieves the stored record of a document.
func (r *Repository) Get(identifier string) (*entities.HarvestedDocument, error) {
	var record entities.HarvestedDocument
	err := r.db.Where("identifier = ?", identifier).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Document retrieves and decodes a harvested document.
func (r *Repository) Document(identifier string) (*datacite.Document, error) {
	record, err := r.Get(identifier)
	if err != nil {
		return nil, err
	}
	var doc datacite.Document
	if err := json.Unmarshal([]byte(record.Body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", identifier, err)
	}
	return &doc, nil
}

// List returns stored records ordered by title. An empty etlName lists all ETLs.
func (r *Repository) List(etlName string, limit, offset int) ([]entities.HarvestedDocument, error) {
	var records []entities.HarvestedDocument
	query := r.scope(etlName).Order("title ASC, identifier ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&records).Error
	return records, err
}

// Count returns the number of stored documents. An empty etlName counts all ETLs.
func (r *Repository) Count(etlName string) (int64, error) {
	var count int64
	err := r.scope(etlName).Count(&count).Error
	return count, err
}

func (r *Repository) scope(etlName string) *gorm.DB {
	query := r.db.Model(&entities.HarvestedDocument{})
	if etlName != "" {
		query = query.Where("etl_name = ?", etlName)
	}
	return query
}

func mainTitle(doc *datacite.Document) string {
	for _, title := range doc.Titles {
		if title.Type == "" {
			return title.Value
		}
	}
	return ""
}
