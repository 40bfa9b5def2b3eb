// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/turnstile/internal/models"
)

// CSVHeader is the first line of every export.
const CSVHeader = "ID,Usuario,Lector,Tipo Movimiento,Fecha y Hora"

// CSVContentType is the media type of an export.
const CSVContentType = "text/csv;charset=utf-8"

// WriteCSV writes records in the export format: the header line followed by
// one line per record, fields joined by commas.
//
// Fields are written verbatim. A comma inside a user name or location shifts
// the remaining columns of that row; existing spreadsheets depend on this
// exact layout, so quoting is not applied. Lines are separated by "\n" with no
// trailing newline.
func WriteCSV(w io.Writer, records []models.DisplayRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Usuario,
			r.Lector,
			string(r.TipoMovimiento),
			r.FechaHora.String(),
		}
		if _, err := fmt.Fprintf(bw, "\n%s", strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFilename names an export produced on the calendar date of now.
func ExportFilename(now time.Time) string {
	return "registros_acceso_" + now.Format(models.DateLayout) + ".csv"
}
