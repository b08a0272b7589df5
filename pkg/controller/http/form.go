package http

import (
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/usecase"
	"github.com/secmon-lab/grievance/pkg/utils/safe"
)

// parseForm accepts both multipart and url-encoded bodies
func parseForm(r *http.Request, maxMemory int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return goerr.Wrap(model.ErrValidation, "failed to parse multipart form", goerr.V("error", err.Error()))
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return goerr.Wrap(model.ErrValidation, "failed to parse form", goerr.V("error", err.Error()))
	}
	return nil
}

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.Form.Get(name))
}

func requireValue(r *http.Request, name string) (string, error) {
	v := formValue(r, name)
	if v == "" {
		return "", goerr.Wrap(model.ErrValidation, name+" is required", goerr.V(model.FieldKey, name))
	}
	return v, nil
}

// formList collects repeated values sent as "name" or "name[]". Blank entries are
// dropped and submission order is kept.
func formList(r *http.Request, name string) []string {
	var result []string
	for _, key := range []string{name, name + "[]"} {
		for _, v := range r.Form[key] {
			if v = strings.TrimSpace(v); v != "" {
				result = append(result, v)
			}
		}
	}
	return result
}

func invalidValue(name string, err error) error {
	return goerr.Wrap(model.ErrValidation, "invalid "+name,
		goerr.V(model.FieldKey, name), goerr.V("error", err.Error()))
}

// formUploads opens every file part of a multipart form. Field names are visited
// in sorted order. The returned function closes all opened files.
func formUploads(r *http.Request) ([]usecase.Upload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			safe.Close(r.Context(), f)
		}
	}

	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}

	keys := make([]string, 0, len(r.MultipartForm.File))
	for key := range r.MultipartForm.File {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var uploads []usecase.Upload
	for _, key := range keys {
		for _, fh := range r.MultipartForm.File[key] {
			f, err := fh.Open()
			if err != nil {
				closeAll()
				return nil, func() {}, goerr.Wrap(err, "failed to open uploaded file", goerr.V("filename", fh.Filename))
			}
			opened = append(opened, f)
			uploads = append(uploads, usecase.Upload{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     f,
			})
		}
	}

	return uploads, closeAll, nil
}
