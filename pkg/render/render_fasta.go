package render

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"
	"github.com/yumyai/vogapi/pkg/db"
	"github.com/yumyai/vogapi/pkg/model"
)

const FastaContentType = "text/x-fasta"

// Fasta writes records as FASTA text, 60 residues per line.
func Fasta(w http.ResponseWriter, status int, records ...model.Sequence) {
	w.Header().Set("Content-Type", FastaContentType)
	w.WriteHeader(status)
	if err := db.WriteFasta(w, records); err != nil {
		logger.Error("Failed to write fasta", zap.Error(err))
	}
}
