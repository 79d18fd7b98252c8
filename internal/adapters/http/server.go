package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	api "dashpmo/internal/api"
	"dashpmo/internal/importer"
	"dashpmo/internal/logging"
	"dashpmo/internal/ports"
	importsvc "dashpmo/internal/services/imports"
	"dashpmo/internal/workbook"
)

// Server implements the generated StrictServerInterface.
type Server struct {
	imports   ports.Importer
	maxUpload int64

	layoutOnce sync.Once
	layoutHTML []byte
	layoutErr  error
}

func New(imports ports.Importer, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Server{imports: imports, maxUpload: maxUploadBytes}
}

var _ api.StrictServerInterface = (*Server)(nil)

// Routes returns a chi.Router mounting the generated handlers plus the
// template and layout downloads, which are not JSON.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.limitBody)

	handler := api.NewStrictHandlerWithOptions(s, nil, api.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  s.requestError,
		ResponseErrorHandlerFunc: s.responseError,
	})
	api.HandlerWithOptions(handler, api.ChiServerOptions{BaseRouter: r, ErrorHandlerFunc: s.requestError})
	r.Get("/imports/template.csv", s.getTemplate)
	r.Get("/imports/layout", s.getLayout)
	return r
}

// Strict handler methods

func (s *Server) GetHealthz(ctx context.Context, _ api.GetHealthzRequestObject) (api.GetHealthzResponseObject, error) {
	ok := "ok"
	return api.GetHealthz200JSONResponse{Status: &ok}, nil
}

func (s *Server) PostImports(ctx context.Context, req api.PostImportsRequestObject) (api.PostImportsResponseObject, error) {
	strict := req.Params.Strict != nil && *req.Params.Strict
	for {
		part, err := req.Body.NextPart()
		if errors.Is(err, io.EOF) {
			return api.PostImports400JSONResponse{Error: "campo 'file' ausente"}, nil
		}
		if err != nil {
			return api.PostImports400JSONResponse{Error: "upload inválido: " + err.Error()}, nil
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}
		p, err := s.imports.Preview(ctx, part.FileName(), part, ports.ImportOptions{Strict: strict})
		part.Close()

		var tooLarge *http.MaxBytesError
		switch {
		case err == nil:
			return api.PostImports200JSONResponse(*p), nil
		case errors.Is(err, workbook.ErrUnsupportedFormat), errors.As(err, &tooLarge):
			return api.PostImports400JSONResponse{Error: err.Error()}, nil
		case errors.Is(err, importer.ErrTooFewRows), errors.Is(err, workbook.ErrNoSheets), errors.Is(err, workbook.ErrUnreadable):
			return api.PostImports422JSONResponse{Error: err.Error()}, nil
		}
		return nil, err
	}
}

func (s *Server) GetImportsId(ctx context.Context, req api.GetImportsIdRequestObject) (api.GetImportsIdResponseObject, error) {
	p, err := s.imports.Get(ctx, req.Id)
	if err != nil {
		if errors.Is(err, importsvc.ErrNotFound) {
			return api.GetImportsId404JSONResponse{Error: err.Error()}, nil
		}
		return nil, err
	}
	return api.GetImportsId200JSONResponse(*p), nil
}

func (s *Server) PostImportsIdCommit(ctx context.Context, req api.PostImportsIdCommitRequestObject) (api.PostImportsIdCommitResponseObject, error) {
	var c ports.Confirmation
	if req.Body != nil {
		c = *req.Body
	}
	sum, err := s.imports.Commit(ctx, req.Id, c)
	if err != nil {
		if errors.Is(err, importsvc.ErrNotFound) {
			return api.PostImportsIdCommit404JSONResponse{Error: err.Error()}, nil
		}
		return nil, err
	}
	return api.PostImportsIdCommit200JSONResponse(sum), nil
}

// Raw handlers

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf); err != nil {
		s.responseError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="modelo_importacao.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	s.layoutOnce.Do(func() {
		var buf bytes.Buffer
		buf.WriteString("<!doctype html>\n<meta charset=\"utf-8\">\n<title>Layout da planilha</title>\n")
		s.layoutErr = goldmark.New(goldmark.WithExtensions(extension.Table)).Convert([]byte(importer.LayoutMarkdown()), &buf)
		s.layoutHTML = buf.Bytes()
	})
	if s.layoutErr != nil {
		s.responseError(w, r, s.layoutErr)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.layoutHTML)
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) responseError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Errorf("%s %s [%s]: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	writeError(w, http.StatusInternalServerError, "erro interno ao processar a importação")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(api.Error{Error: msg})
}
