package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/drakos74/free-learn/internal/pipeline"
	"github.com/drakos74/free-learn/internal/storage/file"
	"github.com/rs/zerolog/log"
)

const (
	fileField       = "file"
	methodField     = "method"
	evaluationField = "evaluation"
)

// Analyzer runs analysis requests and renders their outcome as text.
type Analyzer interface {
	Analyze(req pipeline.Request) string
	AnalyzeFile(path, method, evaluation string) string
}

type upload struct {
	file       multipart.File
	name       string
	method     string
	evaluation string
}

// readUpload extracts the multipart fields of an analysis request.
// A nil upload with a message is returned for malformed requests.
func readUpload(r *http.Request, maxUpload int64) (*upload, string) {
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Sprintf("could not parse upload: %s", err.Error())
	}
	f, header, err := r.FormFile(fileField)
	if err != nil {
		return nil, fmt.Sprintf("missing '%s'", fileField)
	}
	method := r.FormValue(methodField)
	if method == "" {
		f.Close()
		return nil, fmt.Sprintf("missing '%s'", methodField)
	}
	return &upload{
		file:       f,
		name:       header.Filename,
		method:     method,
		evaluation: r.FormValue(evaluationField),
	}, ""
}

// Upload analyses the uploaded file as a stream.
// Analysis failures are part of the text, only malformed requests are rejected.
func Upload(analyzer Analyzer, maxUpload int64) Route {
	return Route{
		Action: Api,
		Path:   "analyze/upload",
		Method: POST,
		Exec: func(r *http.Request) ([]byte, int, error) {
			u, msg := readUpload(r, maxUpload)
			if u == nil {
				return []byte(msg), http.StatusBadRequest, nil
			}
			defer u.file.Close()
			text := analyzer.Analyze(pipeline.Request{
				Name:       u.name,
				Data:       u.file,
				Method:     u.method,
				Evaluation: u.evaluation,
			})
			return []byte(text), http.StatusOK, nil
		},
	}
}

// File analyses the uploaded file from a temporary copy on disk.
// The copy is removed once the request completes.
func File(analyzer Analyzer, maxUpload int64, dir string) Route {
	return Route{
		Action: Api,
		Path:   "analyze/file",
		Method: POST,
		Exec: func(r *http.Request) ([]byte, int, error) {
			u, msg := readUpload(r, maxUpload)
			if u == nil {
				return []byte(msg), http.StatusBadRequest, nil
			}
			defer u.file.Close()
			path, release, err := file.Spool(dir, u.file, u.name)
			defer release()
			if err != nil {
				log.Error().Err(err).Str("file", u.name).Msg("could not spool upload")
				return nil, 0, err
			}
			return []byte(analyzer.AnalyzeFile(path, u.method, u.evaluation)), http.StatusOK, nil
		},
	}
}
