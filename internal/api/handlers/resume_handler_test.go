package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hiresphere/hiresphere/internal/models"
	"github.com/hiresphere/hiresphere/internal/utils"
)

type stubCandidateRepo struct {
	known map[string]*models.Candidate
}

func (s *stubCandidateRepo) GetByID(_ context.Context, id string) (*models.Candidate, error) {
	c, ok := s.known[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

func (s *stubCandidateRepo) Insert(context.Context, *models.Candidate) error { return nil }

func (s *stubCandidateRepo) SetResumePath(context.Context, string, string) error { return nil }

func (s *stubCandidateRepo) SaveExtraction(context.Context, *models.Candidate) error { return nil }

func (s *stubCandidateRepo) ListWithResume(context.Context) ([]models.Candidate, error) {
	return nil, nil
}

func newUploadRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &stubCandidateRepo{known: map[string]*models.Candidate{
		"cand-1": {ID: "cand-1"},
	}}
	h := NewResumeHandler(repo, nil, nil)

	r := gin.New()
	r.POST("/candidates/:candidate_id/resume", h.Upload)
	return r
}

func uploadRequest(t *testing.T, candidateID, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates/"+candidateID+"/resume", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpload_EmptyFileGetsItsOwnMessage(t *testing.T) {
	r := newUploadRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "cand-1", "resume.pdf", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, "empty file", apiErr.Message)
}

func TestUpload_RejectsNonPDFExtension(t *testing.T) {
	r := newUploadRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "cand-1", "resume.docx", []byte("hello")))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, "only .pdf is allowed", apiErr.Message)
}

func TestUpload_UnknownCandidate(t *testing.T) {
	r := newUploadRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "ghost", "resume.pdf", []byte("hello")))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
