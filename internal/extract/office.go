package extract

import (
	"fmt"

	"github.com/tsawler/tabula/docx"
	"github.com/tsawler/tabula/odt"
	"github.com/tsawler/tabula/xlsx"

	"github.com/noticekit/noticeforge/constants"
)

func (e *Extractor) extractDocx(absPath string) (Result, error) {
	r, err := docx.Open(absPath)
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("docx text: %w", err)
	}
	pages, _ := r.PageCount()
	return Result{Text: text, Pages: pages, Method: constants.MethodDocxText}, nil
}

func (e *Extractor) extractXlsx(absPath string) (Result, error) {
	r, err := xlsx.Open(absPath)
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("open xlsx: %w", err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("xlsx text: %w", err)
	}
	pages, _ := r.PageCount()
	return Result{Text: text, Pages: pages, Method: constants.MethodXlsxText}, nil
}

func (e *Extractor) extractOdt(absPath string) (Result, error) {
	r, err := odt.Open(absPath)
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("open odt: %w", err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("odt text: %w", err)
	}
	pages, _ := r.PageCount()
	return Result{Text: text, Pages: pages, Method: constants.MethodOdtText}, nil
}
