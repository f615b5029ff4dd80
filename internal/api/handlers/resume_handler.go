package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pgrepo "github.com/hiresphere/hiresphere/internal/repositories/postgres"
	"github.com/hiresphere/hiresphere/internal/services"
	"github.com/hiresphere/hiresphere/internal/storage"
	"github.com/hiresphere/hiresphere/internal/utils"
)

type ResumeHandler struct {
	candidates pgrepo.CandidateRepository
	store      storage.Store
	queue      services.Enqueuer
}

func NewResumeHandler(candidates pgrepo.CandidateRepository, store storage.Store, queue services.Enqueuer) *ResumeHandler {
	return &ResumeHandler{candidates: candidates, store: store, queue: queue}
}

// Upload accepts a PDF resume for a candidate, stores it, and queues a
// parsing run.
func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	candidateID := c.Param("candidate_id")
	if candidateID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing candidate_id", nil))
		return
	}

	cand, err := h.candidates.GetByID(c.Request.Context(), candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			writeError(c, utils.E(utils.CodeNotFound, op, "candidate not found", err))
			return
		}
		writeError(c, utils.E(utils.CodeInternal, op, "failed to load candidate", err))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}

	// basic validation
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "empty file", nil))
		return
	}
	if fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)
	if ct != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: head + remaining file
	r := &readJoin{a: bytes.NewReader(head), b: file}

	objectName := "resumes/" + cand.ID + "/" + uuid.NewString() + ".pdf"

	storedPath, err := h.store.Upload(c.Request.Context(), objectName, "application/pdf", r)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to store resume", err))
		return
	}

	if err := h.candidates.SetResumePath(c.Request.Context(), cand.ID, storedPath); err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to attach resume", err))
		return
	}

	if err := h.queue.Enqueue(c.Request.Context(), cand.ID); err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to queue resume parsing", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"candidate_id": cand.ID,
		"resume_path":  storedPath,
		"status":       "queued",
	})
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
