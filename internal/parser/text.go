package parser

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// ExtractText returns the plain text of a stored PDF document. Any failure
// (missing file, corrupt document, unsupported encoding) degrades to an
// empty string so downstream stages can fall back; it never errors.
func ExtractText(path string, logger *logrus.Logger) (text string) {
	if logger == nil {
		logger = logrus.New()
	}

	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("path", path).Warnf("pdf extraction panic: %v", r)
			text = ""
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("failed to open pdf")
		return ""
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("failed to extract pdf text")
		return ""
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		logger.WithField("path", path).WithError(err).Warn("failed to read pdf text")
		return ""
	}
	return strings.TrimSpace(buf.String())
}
