// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/store"
	"github.com/tomtom215/turnstile/internal/validation"
)

func ts(t *testing.T, s string) models.Timestamp {
	t.Helper()
	parsed, err := models.ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q): %v", s, err)
	}
	return parsed
}

func tag(s string) *string { return &s }

func record(t *testing.T, id, userID, readerID int64, user, reader string, mov models.Movement, at string) models.DisplayRecord {
	t.Helper()
	return models.DisplayRecord{
		ID:             id,
		UsuarioID:      userID,
		LectorID:       readerID,
		Usuario:        user,
		Lector:         reader,
		TipoMovimiento: mov,
		FechaHora:      ts(t, at),
	}
}

// fixture returns a small snapshot with records deliberately out of order.
func fixture(t *testing.T) store.Snapshot {
	t.Helper()
	return store.Snapshot{
		Users: []models.User{
			{ID: 1, Nombre: "Juan Pérez", Documento: "12345678", RfidTag: tag("A1B2C3D4"), Estado: models.StatusActive},
			{ID: 2, Nombre: "María García", Documento: "87654321", Estado: models.StatusActive},
			{ID: 3, Nombre: "Carlos López", Documento: "11223344", RfidTag: tag("DEADBEEF"), Estado: models.StatusInactive},
		},
		Readers: []models.Reader{
			{ID: 1, Ubicacion: "Entrada Principal", Estado: models.StatusActive},
			{ID: 2, Ubicacion: "Sala de Servidores", Estado: models.StatusActive},
			{ID: 3, Ubicacion: "Almacén", Estado: models.StatusInactive},
		},
		Records: []models.DisplayRecord{
			record(t, 3, 1, 1, "Juan Pérez", "Entrada Principal", models.MovementExit, "2024-01-15 18:00:00"),
			record(t, 1, 1, 1, "Juan Pérez", "Entrada Principal", models.MovementEntry, "2024-01-15 08:30:00"),
			record(t, 4, 2, 2, "María García", "Sala de Servidores", models.MovementEntry, "2024-01-16 00:00:01"),
			record(t, 2, 2, 2, "María García", "Sala de Servidores", models.MovementEntry, "2024-01-15 09:15:00"),
			record(t, 5, 0, 0, models.DeletedUserLabel, models.DeletedReaderLabel, models.MovementExit, "2024-01-14T23:59:59"),
		},
		Version: 7,
	}
}

func recordIDs(records []models.DisplayRecord) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// ========================================
// Filters
// ========================================

func TestFilterRecords(t *testing.T) {
	snap := fixture(t)

	tests := []struct {
		name   string
		filter RecordFilter
		want   []int64
	}{
		{name: "empty filter matches all", filter: RecordFilter{}, want: []int64{3, 1, 4, 2, 5}},
		{name: "search user case-insensitive", filter: RecordFilter{Search: "JUAN"}, want: []int64{3, 1}},
		{name: "search reader", filter: RecordFilter{Search: "servidores"}, want: []int64{4, 2}},
		{name: "search matches fallback label", filter: RecordFilter{Search: "eliminado"}, want: []int64{5}},
		{name: "whitespace search matches all", filter: RecordFilter{Search: "   "}, want: []int64{3, 1, 4, 2, 5}},
		{name: "usuario id", filter: RecordFilter{UsuarioID: 2}, want: []int64{4, 2}},
		{name: "lector id", filter: RecordFilter{LectorID: 1}, want: []int64{3, 1}},
		{name: "tipo entrada", filter: RecordFilter{Tipo: "entrada"}, want: []int64{1, 4, 2}},
		{name: "tipo legacy capitalized", filter: RecordFilter{Tipo: "Salida"}, want: []int64{3, 5}},
		{name: "tipo todos", filter: RecordFilter{Tipo: "todos"}, want: []int64{3, 1, 4, 2, 5}},
		{name: "single day", filter: RecordFilter{Fecha: "2024-01-15"}, want: []int64{3, 1, 2}},
		{name: "from only", filter: RecordFilter{Desde: "2024-01-15"}, want: []int64{3, 1, 4, 2}},
		{name: "to only", filter: RecordFilter{Hasta: "2024-01-15"}, want: []int64{3, 1, 2, 5}},
		{name: "inclusive range", filter: RecordFilter{Desde: "2024-01-14", Hasta: "2024-01-14"}, want: []int64{5}},
		{name: "empty range", filter: RecordFilter{Desde: "2024-01-17"}, want: []int64{}},
		{name: "and composition", filter: RecordFilter{Search: "maría", Tipo: "entrada", Fecha: "2024-01-15"}, want: []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordIDs(FilterRecords(snap.Records, tt.filter))
			if !slices.Equal(got, tt.want) {
				t.Errorf("FilterRecords() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

// generatedRecords builds n records cycling through users, readers,
// movements and days, plus one record whose user was deleted.
func generatedRecords(t *testing.T, n int) []models.DisplayRecord {
	t.Helper()
	users := []string{"Juan Pérez", "María García", "Carlos López"}
	readers := []string{"Entrada Principal", "Sala de Servidores"}
	movements := []models.Movement{models.MovementEntry, models.MovementExit}

	out := make([]models.DisplayRecord, 0, n+1)
	for i := 0; i < n; i++ {
		at := fmt.Sprintf("2024-01-%02dT%02d:%02d:00", 12+i%5, 8+i%9, (i*7)%60)
		out = append(out, record(t, int64(i+1), int64(i%3+1), int64(i%2+1),
			users[i%3], readers[i%2], movements[(i/2)%2], at))
	}
	return append(out, record(t, int64(n+1), 0, 1, models.DeletedUserLabel, readers[0], models.MovementExit, "2024-01-14T12:00:00"))
}

func TestFilterRecords_CompositionIsIntersection(t *testing.T) {
	records := generatedRecords(t, 24)

	searches := []string{"", "juan", "SERVIDORES", "garcía", "eliminado"}
	tipos := []string{"", "todos", "entrada", "Salida"}
	dates := []RecordFilter{
		{},
		{Fecha: "2024-01-14"},
		{Desde: "2024-01-14"},
		{Hasta: "2024-01-13"},
		{Desde: "2024-01-13", Hasta: "2024-01-15"},
	}
	relations := []RecordFilter{
		{},
		{UsuarioID: 2},
		{LectorID: 1},
		{UsuarioID: 1, LectorID: 2},
	}

	idSet := func(f RecordFilter) map[int64]bool {
		set := map[int64]bool{}
		for _, r := range FilterRecords(records, f) {
			set[r.ID] = true
		}
		return set
	}

	for _, search := range searches {
		for _, tipo := range tipos {
			for _, date := range dates {
				for _, rel := range relations {
					combined := RecordFilter{
						Search:    search,
						Tipo:      tipo,
						Fecha:     date.Fecha,
						Desde:     date.Desde,
						Hasta:     date.Hasta,
						UsuarioID: rel.UsuarioID,
						LectorID:  rel.LectorID,
					}
					singles := []map[int64]bool{
						idSet(RecordFilter{Search: search}),
						idSet(RecordFilter{Tipo: tipo}),
						idSet(date),
						idSet(rel),
					}

					want := []int64{}
					for _, r := range records {
						inAll := true
						for _, set := range singles {
							inAll = inAll && set[r.ID]
						}
						if inAll {
							want = append(want, r.ID)
						}
					}

					if got := recordIDs(FilterRecords(records, combined)); !slices.Equal(got, want) {
						t.Errorf("FilterRecords(%+v) ids = %v, want intersection %v", combined, got, want)
					}
				}
			}
		}
	}
}

func TestFilterRecords_SingleDayBoundary(t *testing.T) {
	records := []models.DisplayRecord{
		record(t, 1, 1, 1, "a", "b", models.MovementEntry, "2024-01-15 08:30:00"),
		record(t, 2, 1, 1, "a", "b", models.MovementEntry, "2024-01-16 00:00:01"),
	}
	got := recordIDs(FilterRecords(records, RecordFilter{Fecha: "2024-01-15"}))
	if !slices.Equal(got, []int64{1}) {
		t.Errorf("ids = %v, want [1]", got)
	}
}

func TestFilterRecords_OffsetKeepsWrittenDate(t *testing.T) {
	records := []models.DisplayRecord{
		record(t, 1, 1, 1, "a", "b", models.MovementEntry, "2024-01-15T23:30:00-05:00"),
	}
	if got := FilterRecords(records, RecordFilter{Fecha: "2024-01-15"}); len(got) != 1 {
		t.Errorf("record written on 2024-01-15 should match, got %d", len(got))
	}
}

func TestFilterRecords_MissingTimestampExcludedByDateFilter(t *testing.T) {
	records := []models.DisplayRecord{{ID: 1}}
	if got := FilterRecords(records, RecordFilter{}); len(got) != 1 {
		t.Errorf("no date filter should keep record, got %d", len(got))
	}
	if got := FilterRecords(records, RecordFilter{Hasta: "2030-01-01"}); len(got) != 0 {
		t.Errorf("date filter should drop record without timestamp, got %d", len(got))
	}
}

func TestFilterRecords_DoesNotMutateInput(t *testing.T) {
	snap := fixture(t)
	before := slices.Clone(snap.Records)

	got := FilterRecords(snap.Records, RecordFilter{Tipo: "entrada"})
	if len(got) > 0 {
		got[0].Usuario = "changed"
	}

	if !slices.Equal(recordIDs(snap.Records), recordIDs(before)) {
		t.Error("input order changed")
	}
	for i := range before {
		if snap.Records[i].Usuario != before[i].Usuario {
			t.Fatalf("input record %d modified", i)
		}
	}
}

func TestFilterUsers(t *testing.T) {
	snap := fixture(t)

	tests := []struct {
		name   string
		filter UserFilter
		want   []int64
	}{
		{name: "all", filter: UserFilter{}, want: []int64{1, 2, 3}},
		{name: "by name", filter: UserFilter{Search: "garcía"}, want: []int64{2}},
		{name: "by document", filter: UserFilter{Search: "1122"}, want: []int64{3}},
		{name: "by tag lower-case", filter: UserFilter{Search: "deadbeef"}, want: []int64{3}},
		{name: "active", filter: UserFilter{Estado: "Activo"}, want: []int64{1, 2}},
		{name: "inactive lower-case", filter: UserFilter{Estado: "inactivo"}, want: []int64{3}},
		{name: "todos", filter: UserFilter{Estado: "todos"}, want: []int64{1, 2, 3}},
		{name: "no match", filter: UserFilter{Search: "zzz"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := FilterUsers(snap.Users, tt.filter)
			got := make([]int64, len(users))
			for i, u := range users {
				got[i] = u.ID
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("FilterUsers() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterReaders(t *testing.T) {
	snap := fixture(t)

	tests := []struct {
		name   string
		filter ReaderFilter
		want   int
	}{
		{name: "all", filter: ReaderFilter{Estado: All}, want: 3},
		{name: "location", filter: ReaderFilter{Search: "almac"}, want: 1},
		{name: "active", filter: ReaderFilter{Estado: "Activo"}, want: 2},
		{name: "search and status", filter: ReaderFilter{Search: "almacén", Estado: "Activo"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(FilterReaders(snap.Readers, tt.filter)); got != tt.want {
				t.Errorf("FilterReaders() len = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestActiveReadersAndReadersWithRecords(t *testing.T) {
	snap := fixture(t)

	if got := len(ActiveReaders(snap.Readers)); got != 2 {
		t.Errorf("ActiveReaders() = %d, want 2", got)
	}

	withRecords := ReadersWithRecords(snap.Readers, snap.Records)
	if len(withRecords) != 2 || withRecords[0].ID != 1 || withRecords[1].ID != 2 {
		t.Errorf("ReadersWithRecords() = %+v", withRecords)
	}
}

func TestFilterValidation(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{name: "valid record filter", value: RecordFilter{Fecha: "2024-01-15", Tipo: "entrada"}},
		{name: "bad date", value: RecordFilter{Desde: "15/01/2024"}, wantErr: true},
		{name: "impossible date", value: RecordFilter{Hasta: "2024-02-30"}, wantErr: true},
		{name: "bad movement", value: RecordFilter{Tipo: "ingreso"}, wantErr: true},
		{name: "negative relation", value: RecordFilter{UsuarioID: -1}, wantErr: true},
		{name: "bad status", value: UserFilter{Estado: "Suspendido"}, wantErr: true},
		{name: "todos status", value: ReaderFilter{Estado: "todos"}},
		{name: "allowed page size", value: PageRequest{Page: 2, PageSize: 25}},
		{name: "disallowed page size", value: PageRequest{PageSize: 7}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateStruct(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ========================================
// Sort and pagination
// ========================================

func TestSortRecordsDesc(t *testing.T) {
	snap := fixture(t)
	tie := record(t, 9, 1, 1, "x", "y", models.MovementEntry, "2024-01-15 18:00:00")
	noTime := models.DisplayRecord{ID: 10}
	input := append(slices.Clone(snap.Records), tie, noTime)

	got := recordIDs(SortRecordsDesc(input))
	want := []int64{4, 9, 3, 2, 1, 5, 10}
	if !slices.Equal(got, want) {
		t.Errorf("SortRecordsDesc() ids = %v, want %v", got, want)
	}

	if input[0].ID != 3 {
		t.Error("input slice was reordered")
	}
}

func TestSortRecordsDesc_Empty(t *testing.T) {
	got := SortRecordsDesc(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("SortRecordsDesc(nil) = %#v, want empty slice", got)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name      string
		req       PageRequest
		wantItems []int
		wantPage  int
		wantSize  int
		wantPages int
	}{
		{name: "first page", req: PageRequest{Page: 1, PageSize: 10}, wantItems: items[0:10], wantPage: 1, wantSize: 10, wantPages: 3},
		{name: "last partial page", req: PageRequest{Page: 3, PageSize: 10}, wantItems: items[20:23], wantPage: 3, wantSize: 10, wantPages: 3},
		{name: "past the end", req: PageRequest{Page: 4, PageSize: 10}, wantItems: []int{}, wantPage: 4, wantSize: 10, wantPages: 3},
		{name: "defaults", req: PageRequest{}, wantItems: items[0:10], wantPage: 1, wantSize: DefaultPageSize, wantPages: 3},
		{name: "negative page", req: PageRequest{Page: -2, PageSize: 5}, wantItems: items[0:5], wantPage: 1, wantSize: 5, wantPages: 5},
		{name: "exact multiple", req: PageRequest{Page: 1, PageSize: 50}, wantItems: items, wantPage: 1, wantSize: 50, wantPages: 1},
		{name: "huge page", req: PageRequest{Page: 1 << 62, PageSize: 50}, wantItems: []int{}, wantPage: 1 << 62, wantSize: 50, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.req)
			if !slices.Equal(got.Items, tt.wantItems) {
				t.Errorf("Items = %v, want %v", got.Items, tt.wantItems)
			}
			if got.Page != tt.wantPage || got.PageSize != tt.wantSize {
				t.Errorf("Page/PageSize = %d/%d, want %d/%d", got.Page, got.PageSize, tt.wantPage, tt.wantSize)
			}
			if got.Total != len(items) {
				t.Errorf("Total = %d, want %d", got.Total, len(items))
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got := Paginate([]string{}, PageRequest{Page: 1, PageSize: 5})
	if got.Total != 0 || got.TotalPages != 0 || got.Items == nil || len(got.Items) != 0 {
		t.Errorf("Paginate(empty) = %+v", got)
	}
}

func TestPaginate_PagesCoverSortedInputOnce(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for _, size := range []int{5, 10, 25, 50} {
			// generatedRecords appends one extra record, so take exactly n
			sorted := SortRecordsDesc(FilterRecords(generatedRecords(t, n)[:n], RecordFilter{}))

			first := Paginate(sorted, PageRequest{Page: 1, PageSize: size})
			if wantPages := (n + size - 1) / size; first.TotalPages != wantPages || first.Total != n {
				t.Fatalf("n=%d size=%d: total=%d pages=%d, want %d/%d", n, size, first.Total, first.TotalPages, n, wantPages)
			}

			var joined []int64
			seen := map[int64]int{}
			for p := 1; p <= first.TotalPages; p++ {
				page := Paginate(sorted, PageRequest{Page: p, PageSize: size})
				if p < first.TotalPages && len(page.Items) != size {
					t.Errorf("n=%d size=%d page %d has %d items, want %d", n, size, p, len(page.Items), size)
				}
				for _, r := range page.Items {
					joined = append(joined, r.ID)
					seen[r.ID]++
				}
			}

			if want := recordIDs(sorted); !slices.Equal(joined, want) {
				t.Errorf("n=%d size=%d: concatenated pages %v, want %v", n, size, joined, want)
			}
			for id, count := range seen {
				if count != 1 {
					t.Errorf("n=%d size=%d: record %d appears %d times", n, size, id, count)
				}
			}
			if past := Paginate(sorted, PageRequest{Page: first.TotalPages + 1, PageSize: size}); len(past.Items) != 0 {
				t.Errorf("n=%d size=%d: page past the end has %d items", n, size, len(past.Items))
			}
		}
	}
}

func TestPaginate_ItemsAreCopied(t *testing.T) {
	items := []int{1, 2, 3}
	page := Paginate(items, PageRequest{Page: 1, PageSize: 5})
	page.Items[0] = 99
	if items[0] != 1 {
		t.Error("page items alias the input slice")
	}
}

// ========================================
// Aggregates
// ========================================

func TestCountByStatus(t *testing.T) {
	snap := fixture(t)

	users := CountByStatus(snap.Users, UserStatus)
	if users != (StatusCounts{Total: 3, Active: 2, Inactive: 1}) {
		t.Errorf("users = %+v", users)
	}
	readers := CountByStatus(snap.Readers, ReaderStatus)
	if readers != (StatusCounts{Total: 3, Active: 2, Inactive: 1}) {
		t.Errorf("readers = %+v", readers)
	}
	if empty := CountByStatus([]models.User(nil), UserStatus); empty != (StatusCounts{}) {
		t.Errorf("empty = %+v", empty)
	}
}

func TestCountToday(t *testing.T) {
	snap := fixture(t)
	bogota := time.FixedZone("COT", -5*3600)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "utc day", now: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), want: 3},
		{name: "next day", now: time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC), want: 1},
		{name: "local evening still previous day", now: time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC).In(bogota), want: 3},
		{name: "no records", now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountToday(snap.Records, tt.now); got != tt.want {
				t.Errorf("CountToday() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMostRecentEntry(t *testing.T) {
	snap := fixture(t)

	got, ok := MostRecentEntry(snap.Records)
	if !ok || got.ID != 4 {
		t.Errorf("MostRecentEntry() = %d, %v; want 4", got.ID, ok)
	}

	onlyExits := FilterRecords(snap.Records, RecordFilter{Tipo: "salida"})
	if _, ok := MostRecentEntry(onlyExits); ok {
		t.Error("expected no entry among exits")
	}

	// Must agree with the first entrada of the sorted list
	for _, r := range SortRecordsDesc(snap.Records) {
		if r.TipoMovimiento.Is(models.MovementEntry) {
			if r.ID != got.ID {
				t.Errorf("sorted first entrada = %d, MostRecentEntry = %d", r.ID, got.ID)
			}
			break
		}
	}
}

func TestMovementTotals(t *testing.T) {
	records := fixture(t).Records
	records = append(records, models.DisplayRecord{ID: 20, TipoMovimiento: "Entrada"}, models.DisplayRecord{ID: 21, TipoMovimiento: "otro"})

	got := MovementTotals(records)
	if got != (MovementCounts{Entradas: 4, Salidas: 2}) {
		t.Errorf("MovementTotals() = %+v", got)
	}
}

func TestBuildDashboard(t *testing.T) {
	snap := fixture(t)
	now := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)

	d := BuildDashboard(snap, now, 3)

	if d.Users.Active != 2 || d.Readers.Total != 3 {
		t.Errorf("counts: users=%+v readers=%+v", d.Users, d.Readers)
	}
	if d.Records.Total != 5 || d.Records.Today != 3 {
		t.Errorf("records summary = %+v", d.Records)
	}
	if d.Records.LastEntry == nil || d.Records.LastEntry.ID != 4 {
		t.Errorf("last entry = %+v", d.Records.LastEntry)
	}
	if got := recordIDs(d.Recent); !slices.Equal(got, []int64{4, 3, 2}) {
		t.Errorf("recent = %v", got)
	}
	if d.Version != 7 {
		t.Errorf("version = %d", d.Version)
	}

	if got := BuildDashboard(store.Snapshot{}, now, 0); len(got.Recent) != 0 || got.Records.LastEntry != nil {
		t.Errorf("empty dashboard = %+v", got)
	}
	if got := BuildDashboard(snap, now, 0); len(got.Recent) != DefaultRecentLimit {
		t.Errorf("default recent = %d", len(got.Recent))
	}
}

// ========================================
// CSV export
// ========================================

func TestWriteCSV(t *testing.T) {
	records := []models.DisplayRecord{
		record(t, 1, 1, 1, "Juan Pérez", "Entrada Principal", models.MovementEntry, "2024-01-15 08:30:00"),
		record(t, 2, 2, 1, "Pérez, Ana", "Entrada Principal", models.MovementExit, "2024-01-15T09:00:00"),
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := strings.Join([]string{
		"ID,Usuario,Lector,Tipo Movimiento,Fecha y Hora",
		"1,Juan Pérez,Entrada Principal,entrada,2024-01-15 08:30:00",
		"2,Pérez, Ana,Entrada Principal,salida,2024-01-15T09:00:00",
	}, "\n")
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.String() != CSVHeader {
		t.Errorf("WriteCSV(nil) = %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterError(t *testing.T) {
	if err := WriteCSV(failingWriter{}, fixture(t).Records); err == nil {
		t.Error("expected writer error")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	if got := ExportFilename(now); got != "registros_acceso_2024-03-09.csv" {
		t.Errorf("ExportFilename() = %q", got)
	}
}
