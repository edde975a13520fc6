package ui

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"ocev/adapters/excel"
	"ocev/domain/core"
	"ocev/domain/evidence"
	apperrors "ocev/internal/errors"
	"ocev/internal/testkit"
	"ocev/ports"
)

const maxUploadBytes = 16 << 20

// handleValidateCSV accepts a CSV or Excel upload plus an evidence_type
// form field, derives evidence records from the table and runs them
// through the validation pipeline.
func (s *Server) handleValidateCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.InvalidInput("missing file upload"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respondError(c, apperrors.InvalidInput("uploaded file exceeds 16MB limit"))
		return
	}

	testType := evidence.ParseTestType(c.PostForm("evidence_type"))
	if !testType.Known() {
		respondError(c, apperrors.InvalidInput("evidence_type must be one of: t-test, chi-square, logistic-regression, kaplan-meier"))
		return
	}

	tmpPath, cleanup, err := saveUpload(fileHeader)
	if err != nil {
		respondError(c, apperrors.Wrap(err, "failed to stage uploaded file"))
		return
	}
	defer cleanup()

	reader := excel.NewDataReader(tmpPath)
	records, err := reader.ReadRecords(tmpPath, testType)
	if err != nil {
		respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}

	result, err := s.service.ValidateRecords(c.Request.Context(), records, testType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleValidateEvidence accepts evidence records directly as JSON, a
// single object or an array.
func (s *Server) handleValidateEvidence(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
	if err != nil {
		respondError(c, apperrors.Wrap(err, "failed to read request body"))
		return
	}

	records, err := evidence.DecodeRecords(body)
	if err != nil {
		respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}

	testType := evidence.TestUnknown
	if len(records) > 0 {
		testType = records[0].TestType
	}

	result, err := s.service.ValidateRecords(c.Request.Context(), records, testType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleGenerateSynthetic fabricates a dataset for the requested test
// type and immediately validates it, returning both the run result and
// the generated records.
func (s *Server) handleGenerateSynthetic(c *gin.Context) {
	cfg := testkit.DefaultGeneratorConfig()
	if v := c.PostForm("n_samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(c, apperrors.InvalidInput("n_samples must be a positive integer"))
			return
		}
		cfg.NSamples = n
	}
	if v := c.PostForm("evidence_type"); v != "" {
		cfg.EvidenceType = evidence.ParseTestType(v)
		if !cfg.EvidenceType.Known() {
			respondError(c, apperrors.InvalidInput("unsupported evidence_type: "+v))
			return
		}
	}
	if v := c.PostForm("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(c, apperrors.InvalidInput("seed must be an integer"))
			return
		}
		cfg.Seed = seed
	}

	dataset, err := testkit.NewGenerator(cfg).Generate()
	if err != nil {
		respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}

	result, err := s.service.ValidateRecords(c.Request.Context(), dataset.Records, cfg.EvidenceType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"records": dataset.Records,
	})
}

func (s *Server) handleGetResults(c *gin.Context) {
	runID, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	result, err := s.service.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := s.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": results, "count": len(results)})
}

func (s *Server) handleReportJSON(c *gin.Context) {
	result, ok := s.lookupRun(c)
	if !ok {
		return
	}
	data, err := s.reports.JSON(result)
	if err != nil {
		respondError(c, apperrors.Wrap(err, "failed to render JSON report"))
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) handleReportTurtle(c *gin.Context) {
	result, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/turtle", []byte(s.reports.Turtle(result)))
}

func (s *Server) handleReportHTML(c *gin.Context) {
	result, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.reports.HTML(result))
}

func (s *Server) lookupRun(c *gin.Context) (*ports.RunResult, bool) {
	runID, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.InvalidInput(err.Error()))
		return nil, false
	}
	result, err := s.service.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return result, true
}

// saveUpload stages a multipart upload into a temp file so the table
// readers can work from a path.
func saveUpload(fileHeader *multipart.FileHeader) (string, func(), error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".csv"
	}
	tmp, err := os.CreateTemp("", "evidence-upload-*"+ext)
	if err != nil {
		return "", nil, err
	}

	if _, err := io.Copy(tmp, io.LimitReader(src, maxUploadBytes)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}
