package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/media"
	"github.com/phrazzld/autolist-api/internal/service"
)

const (
	// MaxImagesPerRequest caps the image parts of one create or edit request.
	MaxImagesPerRequest = 20

	multipartMemory  = 8 << 20
	formOverheadSize = 1 << 20
)

// publicationForm is the decoded multipart body of a create or edit request.
type publicationForm struct {
	Input   domain.PublicationInput
	Files   []service.UploadFile
	KeepIDs map[uuid.UUID]struct{}
	Cover   domain.CoverChoice
	Version int
}

// parsePublicationForm reads the metadata fields and image parts of a
// multipart request. Edit-only fields are read when edit is true.
func parsePublicationForm(
	w http.ResponseWriter,
	r *http.Request,
	maxUploadBytes int64,
	edit bool,
) (*publicationForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes*MaxImagesPerRequest+formOverheadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, domain.NewValidationError("images", "request body is too large", media.ErrImageTooLarge)
		}
		return nil, domain.NewValidationError("", "request must be multipart/form-data", domain.ErrInvalidFormat)
	}

	form := &publicationForm{}
	get := func(key string) string {
		if vs := r.MultipartForm.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	year, err := parseOptionalInt("vehicle_year", get("vehicle_year"))
	if err != nil {
		return nil, err
	}
	categoryID, err := parseOptionalUUID("category_id", get("category_id"))
	if err != nil {
		return nil, err
	}
	brandID, err := parseOptionalUUID("brand_id", get("brand_id"))
	if err != nil {
		return nil, err
	}

	form.Input = domain.PublicationInput{
		Title:            get("title"),
		ShortDescription: get("short_description"),
		Description:      get("description"),
		Detail:           get("detail"),
		URL:              get("url"),
	}
	if year != nil {
		form.Input.VehicleYear = *year
	}
	if categoryID != nil {
		form.Input.CategoryID = *categoryID
	}
	if brandID != nil {
		form.Input.BrandID = *brandID
	}

	form.Files, err = readImageParts(r.MultipartForm.File["images"], maxUploadBytes)
	if err != nil {
		return nil, err
	}

	if !edit {
		return form, nil
	}

	form.KeepIDs, err = parseKeepIDs(r.MultipartForm.Value["keep_image_ids"])
	if err != nil {
		return nil, err
	}
	// An unreadable cover index falls back like any other invalid cover choice.
	newIndex, _ := parseOptionalInt("cover_new_index", get("cover_new_index"))
	form.Cover = domain.ParseCoverChoice(get("cover_image_id"), newIndex)
	version, err := parseOptionalInt("version", get("version"))
	if err != nil {
		return nil, err
	}
	if version != nil {
		form.Version = *version
	}
	return form, nil
}

// parseKeepIDs accepts repeated values, comma-separated lists, or both.
func parseKeepIDs(values []string) (map[uuid.UUID]struct{}, error) {
	keep := make(map[uuid.UUID]struct{})
	for _, v := range values {
		for _, raw := range strings.Split(v, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			id, err := parseUUID("keep_image_ids", raw)
			if err != nil {
				return nil, err
			}
			keep[id] = struct{}{}
		}
	}
	return keep, nil
}

func readImageParts(headers []*multipart.FileHeader, maxUploadBytes int64) ([]service.UploadFile, error) {
	if len(headers) > MaxImagesPerRequest {
		return nil, domain.NewValidationError("images",
			fmt.Sprintf("at most %d images per request", MaxImagesPerRequest), domain.ErrValidation)
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		upload, err := readImagePart(fh, maxUploadBytes)
		if err != nil {
			return nil, err
		}
		files = append(files, service.UploadFile{
			Filename:    upload.Filename,
			ContentType: upload.ContentType,
			Data:        upload.Data,
		})
	}
	return files, nil
}

func readImagePart(fh *multipart.FileHeader, maxUploadBytes int64) (media.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return media.Upload{}, fmt.Errorf("failed to open part %s: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()
	return media.ReadImage(f, fh.Filename, maxUploadBytes)
}
