package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fyrsmithlabs/docforge/internal/document/docx"
)

// Verify re-reads a finished artifact and checks it parses as its
// format claims. Extensions without a checker pass trivially.
func Verify(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return verifyDocx(path)
	case ".pdf":
		return verifyPDF(path)
	default:
		return nil
	}
}

func verifyDocx(path string) error {
	if _, err := docx.ReadFile(path); err != nil {
		return fmt.Errorf("verify docx: %w", err)
	}
	return nil
}

func verifyPDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("verify pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return fmt.Errorf("verify pdf: %w", err)
	}
	if ctx.PageCount < 1 {
		return fmt.Errorf("verify pdf: document has no pages")
	}
	return nil
}
