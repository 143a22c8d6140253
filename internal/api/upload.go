package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/imaging"
	"github.com/erazemk/omara/internal/model"
)

var errNoImage = errors.New("no image provided")

// parseMultipart limits the body to max bytes and parses it.
func parseMultipart(w http.ResponseWriter, r *http.Request, max int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, max)
	if err := r.ParseMultipartForm(max); err != nil {
		return fmt.Errorf("file too large or invalid multipart form")
	}
	return nil
}

// readImage returns the bytes and sniffed MIME type of the "image" file part.
// It returns errNoImage when the part is absent.
func readImage(r *http.Request) ([]byte, string, error) {
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", errNoImage
	}
	if err != nil {
		return nil, "", fmt.Errorf("invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image")
	}
	mime, err := imaging.Sniff(data)
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// validImageURL accepts absolute http(s) URLs only.
func validImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// itemImage stores the uploaded item image, or falls back to the image_url
// field. The second result reports whether a blob was written.
func itemImage(ctx context.Context, r *http.Request, blobs blob.Store, userID string) (string, bool, error) {
	data, mime, err := readImage(r)
	switch {
	case err == nil:
		u, err := blobs.Put(ctx, blob.ItemImagePath(userID, time.Now()), data, mime)
		if err != nil {
			return "", false, err
		}
		return u, true, nil
	case !errors.Is(err, errNoImage):
		return "", false, &badRequest{err.Error()}
	}

	raw := strings.TrimSpace(r.FormValue("image_url"))
	if raw == "" {
		return "", false, errNoImage
	}
	if !validImageURL(raw) {
		return "", false, &badRequest{"Could not process image URL."}
	}
	return raw, false, nil
}

// itemInput reads item metadata from form fields.
func itemInput(r *http.Request) (model.ItemInput, error) {
	price, err := model.ParsePrice(r.FormValue("price"))
	if err != nil {
		return model.ItemInput{}, err
	}
	in := model.ItemInput{
		Category: r.FormValue("category"),
		Brand:    r.FormValue("brand"),
		Color:    r.FormValue("color"),
		Size:     r.FormValue("size"),
		Price:    price,
		Tags:     model.ParseTags(r.FormValue("tags")),
		Notes:    r.FormValue("notes"),
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.ItemInput{}, err
	}
	return in, nil
}

// badRequest is an error whose message is safe to show to the client.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }
