// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconverter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// sheet is a named grid of cell values.
type sheet struct {
	name string
	rows [][]string
}

// readSheets loads every sheet of an xlsx, xls or csv file.
func readSheets(path string) ([]sheet, error) {
	switch inputExtension(path) {
	case "xlsx":
		return readXlsx(path)
	case "xls":
		return readXls(path)
	case "csv":
		rows, err := readCSV(path)
		if err != nil {
			return nil, err
		}
		return []sheet{{name: baseName(path), rows: rows}}, nil
	}
	return nil, fmt.Errorf("not a spreadsheet: %s", path)
}

func readXlsx(path string) ([]sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	var sheets []sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return sheets, nil
}

func readXls(path string) ([]sheet, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	var sheets []sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		s := sheet{name: ws.Name}
		if s.name == "" {
			s.name = fmt.Sprintf("Sheet%d", i+1)
		}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			s.rows = append(s.rows, cells)
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(decodeText(data)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return rows, nil
}

// spreadsheetCSVRoute writes the first sheet as CSV.
func spreadsheetCSVRoute(_ context.Context, in, out string) error {
	sheets, err := readSheets(in)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(sheets[0].rows); err != nil {
		f.Close()
		return fmt.Errorf("write CSV: %w", err)
	}
	return f.Close()
}

// spreadsheetHTMLRoute renders every sheet as a table under its name.
func spreadsheetHTMLRoute(_ context.Context, in, out string) error {
	sheets, err := readSheets(in)
	if err != nil {
		return err
	}
	d := newHTMLDoc(baseName(in))
	for _, s := range sheets {
		if len(s.rows) == 0 {
			continue
		}
		d.heading(2, s.name)
		d.table(s.rows)
	}
	return writeHTML(out, d)
}

// csvXlsxRoute writes the CSV rows into the first sheet of a new workbook.
func csvXlsxRoute(_ context.Context, in, out string) error {
	rows, err := readCSV(in)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheetName = "Sheet1"
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("save XLSX: %w", err)
	}
	return nil
}
