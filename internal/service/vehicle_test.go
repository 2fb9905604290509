package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bitwise74/vehicle-api/internal/model"
	"bitwise74/vehicle-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVehicles(t *testing.T, db *gorm.DB) *Vehicles {
	t.Helper()

	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	return &Vehicles{DB: db, Store: blobs}
}

func tagNames(tags []model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	return names
}

func TestVehicleCreateRetrieveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	created, err := vehicles.Create(user.ID, VehicleInput{
		Title: "Model X",
		Year:  2023,
		Price: 35000,
	})
	require.NoError(t, err)

	got, err := vehicles.Retrieve(user.ID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Model X", got.Title)
	assert.Equal(t, 2023, got.Year)
	assert.Equal(t, 35000.0, got.Price)
	assert.Nil(t, got.ImagePath)

	// Empty link sets must be present, not nil, so they serialize as []
	assert.NotNil(t, got.Tags)
	assert.NotNil(t, got.Specifications)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.Specifications)
}

func TestVehicleCreateValidation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	tests := []struct {
		name  string
		input VehicleInput
	}{
		{"empty title", VehicleInput{Title: "", Year: 2020, Price: 1000}},
		{"missing year", VehicleInput{Title: "T", Year: 0, Price: 1000}},
		{"negative price", VehicleInput{Title: "T", Year: 2020, Price: -1}},
		{"blank tag name", VehicleInput{Title: "T", Year: 2020, Price: 1000, Tags: []NamedRef{{Name: ""}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vehicles.Create(user.ID, tt.input)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestVehicleCreateSharesTagRows(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	first, err := vehicles.Create(user.ID, VehicleInput{
		Title: "First",
		Year:  2020,
		Price: 10000,
		Tags:  []NamedRef{{Name: "electric"}, {Name: "suv"}},
	})
	require.NoError(t, err)

	second, err := vehicles.Create(user.ID, VehicleInput{
		Title: "Second",
		Year:  2021,
		Price: 20000,
		Tags:  []NamedRef{{Name: "electric"}},
	})
	require.NoError(t, err)

	// "electric" resolved to the same row, no duplicate was inserted
	var count int64
	require.NoError(t, db.Model(&model.Tag{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	require.Len(t, second.Tags, 1)
	assert.Contains(t, tagNames(first.Tags), second.Tags[0].Name)
}

func TestVehicleListFilters(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	tagged, err := vehicles.Create(user.ID, VehicleInput{
		Title: "Tagged",
		Year:  2020,
		Price: 10000,
		Tags:  []NamedRef{{Name: "electric"}},
	})
	require.NoError(t, err)

	_, err = vehicles.Create(user.ID, VehicleInput{
		Title: "Plain",
		Year:  2021,
		Price: 20000,
	})
	require.NoError(t, err)

	all, err := vehicles.List(user.ID, VehicleFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := vehicles.List(user.ID, VehicleFilters{TagIDs: []uint{tagged.Tags[0].ID}})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Tagged", filtered[0].Title)
}

func TestVehicleListOrdering(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	for _, in := range []VehicleInput{
		{Title: "Bravo", Year: 2015, Price: 1000},
		{Title: "Alpha", Year: 2020, Price: 2000},
	} {
		_, err := vehicles.Create(user.ID, in)
		require.NoError(t, err)
	}

	byTitle, err := vehicles.List(user.ID, VehicleFilters{Ordering: "title"})
	require.NoError(t, err)
	require.Len(t, byTitle, 2)
	assert.Equal(t, "Alpha", byTitle[0].Title)

	byYearDesc, err := vehicles.List(user.ID, VehicleFilters{Ordering: "-year"})
	require.NoError(t, err)
	assert.Equal(t, 2020, byYearDesc[0].Year)

	// Default is newest row first
	newest, err := vehicles.List(user.ID, VehicleFilters{})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", newest[0].Title)

	_, err = vehicles.List(user.ID, VehicleFilters{Ordering: "price"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrOrderingInvalid)
}

func TestVehicleScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	vehicles := &Vehicles{DB: db}

	created, err := vehicles.Create(owner.ID, VehicleInput{Title: "Mine", Year: 2020, Price: 1000})
	require.NoError(t, err)

	_, err = vehicles.Retrieve(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = vehicles.Update(other.ID, created.ID, VehicleInput{Title: "Stolen", Year: 2020, Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = vehicles.PartialUpdate(other.ID, created.ID, VehiclePatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	err = newVehicles(t, db).Delete(context.Background(), other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// And it's still there
	_, err = vehicles.Retrieve(owner.ID, created.ID)
	assert.NoError(t, err)
}

func TestVehicleUpdateReplacesLinks(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	created, err := vehicles.Create(user.ID, VehicleInput{
		Title: "Original",
		Year:  2020,
		Price: 10000,
		Tags:  []NamedRef{{Name: "old"}},
	})
	require.NoError(t, err)

	updated, err := vehicles.Update(user.ID, created.ID, VehicleInput{
		Title: "Replaced",
		Year:  2021,
		Price: 12000,
		Tags:  []NamedRef{{Name: "new"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Replaced", updated.Title)
	assert.Equal(t, []string{"new"}, tagNames(updated.Tags))

	// An explicit empty list clears the links
	cleared, err := vehicles.Update(user.ID, created.ID, VehicleInput{
		Title: "Replaced",
		Year:  2021,
		Price: 12000,
		Tags:  []NamedRef{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Tags)
}

func TestVehiclePartialUpdateMergesFields(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	created, err := vehicles.Create(user.ID, VehicleInput{
		Title: "Model X",
		Year:  2023,
		Price: 35000,
		Tags:  []NamedRef{{Name: "electric"}},
	})
	require.NoError(t, err)

	price := 29999.0

	patched, err := vehicles.PartialUpdate(user.ID, created.ID, VehiclePatch{Price: &price})
	require.NoError(t, err)

	// Only the price moved
	assert.Equal(t, 29999.0, patched.Price)
	assert.Equal(t, "Model X", patched.Title)
	assert.Equal(t, 2023, patched.Year)
	assert.Equal(t, []string{"electric"}, tagNames(patched.Tags))
}

func TestVehiclePartialUpdateRejectsInvalidResult(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := &Vehicles{DB: db}

	created, err := vehicles.Create(user.ID, VehicleInput{Title: "Fine", Year: 2020, Price: 1000})
	require.NoError(t, err)

	empty := ""

	_, err = vehicles.PartialUpdate(user.ID, created.ID, VehiclePatch{Title: &empty})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// The stored row didn't change
	got, err := vehicles.Retrieve(user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fine", got.Title)
}

func TestVehicleDeleteKeepsTagsAndSpecs(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")
	vehicles := newVehicles(t, db)

	created, err := vehicles.Create(user.ID, VehicleInput{
		Title:          "Doomed",
		Year:           2020,
		Price:          1000,
		Tags:           []NamedRef{{Name: "keep-me"}},
		Specifications: []NamedRef{{Name: "and-me"}},
	})
	require.NoError(t, err)

	require.NoError(t, vehicles.Delete(context.Background(), user.ID, created.ID))

	_, err = vehicles.Retrieve(user.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Tags and specifications outlive the vehicle, only links go
	var tags, specs, links int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&model.Specification{}).Count(&specs).Error)
	require.NoError(t, db.Table("vehicle_tags").Count(&links).Error)

	assert.EqualValues(t, 1, tags)
	assert.EqualValues(t, 1, specs)
	assert.EqualValues(t, 0, links)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	return buf.Bytes()
}

func TestVehicleUploadImage(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")

	root := t.TempDir()
	blobs, err := storage.NewLocal(root)
	require.NoError(t, err)

	vehicles := &Vehicles{DB: db, Store: blobs}

	created, err := vehicles.Create(user.ID, VehicleInput{Title: "Shiny", Year: 2022, Price: 5000})
	require.NoError(t, err)

	payload := pngBytes(t)

	got, err := vehicles.UploadImage(context.Background(), user.ID, created.ID, bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.NotNil(t, got.ImagePath)

	first := *got.ImagePath
	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(first)))

	// A second upload replaces the blob and the reference
	got, err = vehicles.UploadImage(context.Background(), user.ID, created.ID, bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.NotNil(t, got.ImagePath)
	assert.NotEqual(t, first, *got.ImagePath)

	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(*got.ImagePath)))
	assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(first)))
}

func TestVehicleUploadImageRejectsJunk(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "cars@example.com")

	root := t.TempDir()
	blobs, err := storage.NewLocal(root)
	require.NoError(t, err)

	vehicles := &Vehicles{DB: db, Store: blobs}

	created, err := vehicles.Create(user.ID, VehicleInput{Title: "Plain", Year: 2022, Price: 5000})
	require.NoError(t, err)

	junk := []byte("definitely not an image")

	_, err = vehicles.UploadImage(context.Background(), user.ID, created.ID, bytes.NewReader(junk), int64(len(junk)))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Nothing was stored and the vehicle still has no image
	got, err := vehicles.Retrieve(user.ID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImagePath)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
