// Package xlsx は社員一覧を Excel ブックとして出力します。
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
)

const (
	// SheetName は出力するシート名です。
	SheetName = "Employees"
	// ContentType は XLSX の MIME タイプです。
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header は 1 行目の列見出しです。
var Header = []string{"ID", "Name", "Email", "Departments", "Roles"}

// WriteEmployees は社員ごとに 1 行のブックを生成して w に書き出します。
// 複数の部署・役職はカンマ区切りで 1 セルにまとめます。
func WriteEmployees(w io.Writer, details []*employee.Details) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	for i, d := range details {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{d.ID, d.Name, emailValue(d.Email), departmentNames(d), roleTitles(d)}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "E", 28); err != nil {
		return fmt.Errorf("xlsx: column width: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("xlsx: freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func emailValue(email *string) string {
	if email == nil {
		return ""
	}
	return *email
}

func departmentNames(d *employee.Details) string {
	names := make([]string, 0, len(d.Departments))
	for _, dep := range d.Departments {
		names = append(names, dep.Name)
	}
	return strings.Join(names, ", ")
}

func roleTitles(d *employee.Details) string {
	titles := make([]string, 0, len(d.Roles))
	for _, r := range d.Roles {
		titles = append(titles, r.Title)
	}
	return strings.Join(titles, ", ")
}
