package documents

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/mapharvest/internal/datacite"
	"github.com/mrlokans/mapharvest/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "documents.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.HarvestedDocument{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func testDocument(id, title string) *datacite.Document {
	doc := datacite.New(id, "en")
	doc.Titles = []datacite.Title{
		{Value: title + ".json", Type: datacite.TitleAlternative},
		{Value: title, Lang: "en"},
	}
	doc.Subjects = []datacite.Subject{{Value: "hydrology", Lang: "en"}}
	return doc
}

func TestRepository_UpsertAndDocument(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Upsert("etl-a", "v1", testDocument("abc", "Rivers")))

	record, err := repo.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "etl-a", record.ETLName)
	assert.Equal(t, "Rivers", record.Title)

	doc, err := repo.Document("abc")
	require.NoError(t, err)
	assert.Equal(t, testDocument("abc", "Rivers"), doc)
}

func TestRepository_UpsertReplaces(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Upsert("etl-a", "v1", testDocument("abc", "Rivers")))
	require.NoError(t, repo.Upsert("etl-b", "v2", testDocument("abc", "Lakes")))

	count, err := repo.Count("")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	record, err := repo.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "etl-b", record.ETLName)
	assert.Equal(t, "v2", record.Version)
	assert.Equal(t, "Lakes", record.Title)
}

func TestRepository_ListAndCount(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.Upsert("etl-a", "v1", testDocument("1", "Charlie")))
	require.NoError(t, repo.Upsert("etl-a", "v1", testDocument("2", "Alpha")))
	require.NoError(t, repo.Upsert("etl-b", "v1", testDocument("3", "Bravo")))

	all, err := repo.List("", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Title)

	page, err := repo.List("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Bravo", page[0].Title)

	onlyA, err := repo.List("etl-a", 0, 0)
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	count, err := repo.Count("etl-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.Document("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
