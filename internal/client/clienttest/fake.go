// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package clienttest provides an in-memory client.AccessAPI for tests.
//
// FakeAPI follows the backend's observable rules: scanning an unknown tag
// answers 404 and remembers the tag, inactive users get 403, movements
// alternate per user when not given, and deleting a user also deletes its
// records.
package clienttest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/turnstile/internal/client"
	"github.com/tomtom215/turnstile/internal/models"
)

// Method names accepted by SetError and Calls.
const (
	MethodLogin          = "Login"
	MethodListUsers      = "ListUsers"
	MethodListReaders    = "ListReaders"
	MethodListRecords    = "ListRecords"
	MethodCreateUser     = "CreateUser"
	MethodUpdateUser     = "UpdateUser"
	MethodDeleteUser     = "DeleteUser"
	MethodCreateReader   = "CreateReader"
	MethodUpdateReader   = "UpdateReader"
	MethodDeleteReader   = "DeleteReader"
	MethodCreateRecord   = "CreateRecord"
	MethodScanTag        = "ScanTag"
	MethodLastUnknownTag = "LastUnknownTag"
)

// FakeAPI is an in-memory backend.
type FakeAPI struct {
	mu sync.Mutex

	users   []models.User
	readers []models.Reader
	records []models.RawRecord
	nextID  int64

	unknownTag string
	errors     map[string]error
	calls      map[string]int

	// Username, Password and Token configure Login.
	Username string
	Password string
	Token    string

	// Now stamps new records. Defaults to time.Now.
	Now func() time.Time

	listGate    chan struct{}
	listStarted chan struct{}
}

var _ client.AccessAPI = (*FakeAPI)(nil)

// NewFakeAPI returns an empty fake accepting admin/admin.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		nextID:   1,
		errors:   make(map[string]error),
		calls:    make(map[string]int),
		Username: "admin",
		Password: "admin",
		Token:    "fake-token",
		Now:      time.Now,
	}
}

// SetError makes method fail with err until cleared with a nil err.
func (f *FakeAPI) SetError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errors, method)
		return
	}
	f.errors[method] = err
}

// Calls returns how many times method was invoked.
func (f *FakeAPI) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// BlockLists makes ListUsers wait until release is called. started receives
// one value each time a ListUsers call begins waiting.
func (f *FakeAPI) BlockLists() (started <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	startedCh := make(chan struct{}, 16)
	f.listGate = gate
	f.listStarted = startedCh

	var once sync.Once
	return startedCh, func() {
		once.Do(func() {
			f.mu.Lock()
			f.listGate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Unauthorized returns the error the backend produces for a missing or stale token.
func Unauthorized() error {
	return &client.APIError{StatusCode: http.StatusUnauthorized, Method: "GET", Path: "/"}
}

// ServerError returns a 500 response error.
func ServerError() error {
	return &client.APIError{StatusCode: http.StatusInternalServerError, Message: "Internal Server Error", Method: "GET", Path: "/"}
}

// AddUser seeds a user and returns it with its assigned ID.
func (f *FakeAPI) AddUser(u models.User) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.allocID()
	if u.Estado == "" {
		u.Estado = models.StatusActive
	}
	f.users = append(f.users, u)
	return u
}

// AddReader seeds a reader and returns it with its assigned ID.
func (f *FakeAPI) AddReader(r models.Reader) models.Reader {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.allocID()
	if r.Estado == "" {
		r.Estado = models.StatusActive
	}
	f.readers = append(f.readers, r)
	return r
}

// AddRecord seeds a raw record as-is, assigning an ID when zero.
func (f *FakeAPI) AddRecord(r models.RawRecord) models.RawRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		r.ID = f.allocID()
	}
	f.records = append(f.records, r)
	return r
}

func (f *FakeAPI) allocID() int64 {
	id := f.nextID
	f.nextID++
	return id
}

// begin counts the call and returns its configured error.
func (f *FakeAPI) begin(method string) error {
	f.calls[method]++
	return f.errors[method]
}

func notFound(path string) error {
	return &client.APIError{StatusCode: http.StatusNotFound, Method: "GET", Path: path}
}

// ========================================
// Auth
// ========================================

// Login implements client.AccessAPI.
func (f *FakeAPI) Login(_ context.Context, creds models.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodLogin); err != nil {
		return "", err
	}
	if creds.Username != f.Username || creds.Password != f.Password {
		return "", &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Credenciales inválidas", Method: "POST", Path: "/auth/login"}
	}
	return f.Token, nil
}

// ========================================
// Users
// ========================================

// ListUsers implements client.AccessAPI.
func (f *FakeAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	gate, started := f.listGate, f.listStarted
	f.mu.Unlock()
	if gate != nil {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodListUsers); err != nil {
		return nil, err
	}
	return append([]models.User{}, f.users...), nil
}

// ListActiveUsers implements client.AccessAPI.
func (f *FakeAPI) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	users, err := f.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	active := users[:0]
	for _, u := range users {
		if u.Estado.IsActive() {
			active = append(active, u)
		}
	}
	return active, nil
}

// GetUser implements client.AccessAPI.
func (f *FakeAPI) GetUser(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.userIndex(id); i >= 0 {
		u := f.users[i]
		return &u, nil
	}
	return nil, notFound("/usuarios/{id}")
}

// CreateUser implements client.AccessAPI.
func (f *FakeAPI) CreateUser(_ context.Context, draft models.UserDraft) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodCreateUser); err != nil {
		return nil, err
	}
	if err := f.checkUnique(0, draft); err != nil {
		return nil, err
	}
	u := models.User{ID: f.allocID(), Nombre: draft.Nombre, Documento: draft.Documento, RfidTag: draft.RfidTag, Estado: draft.Estado}
	if u.Estado == "" {
		u.Estado = models.StatusActive
	}
	f.users = append(f.users, u)
	if draft.RfidTag != nil && strings.EqualFold(*draft.RfidTag, f.unknownTag) {
		f.unknownTag = ""
	}
	return &u, nil
}

// UpdateUser implements client.AccessAPI.
func (f *FakeAPI) UpdateUser(_ context.Context, id int64, draft models.UserDraft) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodUpdateUser); err != nil {
		return nil, err
	}
	i := f.userIndex(id)
	if i < 0 {
		return nil, notFound("/usuarios/{id}")
	}
	if err := f.checkUnique(id, draft); err != nil {
		return nil, err
	}
	u := &f.users[i]
	u.Nombre, u.Documento, u.RfidTag = draft.Nombre, draft.Documento, draft.RfidTag
	if draft.Estado != "" {
		u.Estado = draft.Estado
	}
	return &models.User{ID: u.ID, Nombre: u.Nombre, Documento: u.Documento, RfidTag: u.RfidTag, Estado: u.Estado}, nil
}

// DeleteUser implements client.AccessAPI. The user's records go with it.
func (f *FakeAPI) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodDeleteUser); err != nil {
		return err
	}
	i := f.userIndex(id)
	if i < 0 {
		return notFound("/usuarios/{id}")
	}
	f.users = append(f.users[:i], f.users[i+1:]...)

	kept := f.records[:0]
	for _, r := range f.records {
		if r.Usuario != nil && r.Usuario.ID == id {
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return nil
}

func (f *FakeAPI) userIndex(id int64) int {
	for i := range f.users {
		if f.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) checkUnique(id int64, draft models.UserDraft) error {
	for _, u := range f.users {
		if u.ID == id {
			continue
		}
		if u.Documento == draft.Documento {
			return &client.APIError{StatusCode: http.StatusBadRequest, Message: "El documento ya está registrado", Method: "POST", Path: "/usuarios"}
		}
		if draft.RfidTag != nil && u.RfidTag != nil && strings.EqualFold(*u.RfidTag, *draft.RfidTag) {
			return &client.APIError{StatusCode: http.StatusBadRequest, Message: "El tag RFID ya está asignado", Method: "POST", Path: "/usuarios"}
		}
	}
	return nil
}

// ========================================
// Readers
// ========================================

// ListReaders implements client.AccessAPI.
func (f *FakeAPI) ListReaders(_ context.Context) ([]models.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodListReaders); err != nil {
		return nil, err
	}
	return f.readersWithActivity(), nil
}

// readersWithActivity returns readers with UltimaActividad computed from records.
func (f *FakeAPI) readersWithActivity() []models.Reader {
	out := make([]models.Reader, len(f.readers))
	for i, r := range f.readers {
		for _, rec := range f.records {
			if rec.Lector == nil || rec.Lector.ID != r.ID {
				continue
			}
			if r.UltimaActividad == nil || rec.FechaHora.Time.After(r.UltimaActividad.Time) {
				ts := rec.FechaHora
				r.UltimaActividad = &ts
			}
		}
		out[i] = r
	}
	return out
}

// ListActiveReaders implements client.AccessAPI.
func (f *FakeAPI) ListActiveReaders(ctx context.Context) ([]models.Reader, error) {
	readers, err := f.ListReaders(ctx)
	if err != nil {
		return nil, err
	}
	active := readers[:0]
	for _, r := range readers {
		if r.Estado.IsActive() {
			active = append(active, r)
		}
	}
	return active, nil
}

// ListReadersWithRecords implements client.AccessAPI.
func (f *FakeAPI) ListReadersWithRecords(ctx context.Context) ([]models.Reader, error) {
	readers, err := f.ListReaders(ctx)
	if err != nil {
		return nil, err
	}
	withRecords := readers[:0]
	for _, r := range readers {
		if r.UltimaActividad != nil {
			withRecords = append(withRecords, r)
		}
	}
	return withRecords, nil
}

// GetReader implements client.AccessAPI.
func (f *FakeAPI) GetReader(_ context.Context, id int64) (*models.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.readerIndex(id); i >= 0 {
		r := f.readers[i]
		return &r, nil
	}
	return nil, notFound("/lectores/{id}")
}

// CreateReader implements client.AccessAPI.
func (f *FakeAPI) CreateReader(_ context.Context, draft models.ReaderDraft) (*models.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodCreateReader); err != nil {
		return nil, err
	}
	r := models.Reader{ID: f.allocID(), Ubicacion: draft.Ubicacion, Estado: draft.Estado}
	if r.Estado == "" {
		r.Estado = models.StatusActive
	}
	f.readers = append(f.readers, r)
	return &r, nil
}

// UpdateReader implements client.AccessAPI.
func (f *FakeAPI) UpdateReader(_ context.Context, id int64, draft models.ReaderDraft) (*models.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodUpdateReader); err != nil {
		return nil, err
	}
	i := f.readerIndex(id)
	if i < 0 {
		return nil, notFound("/lectores/{id}")
	}
	r := &f.readers[i]
	r.Ubicacion = draft.Ubicacion
	if draft.Estado != "" {
		r.Estado = draft.Estado
	}
	out := *r
	return &out, nil
}

// DeleteReader implements client.AccessAPI. Records keep a nil lector.
func (f *FakeAPI) DeleteReader(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodDeleteReader); err != nil {
		return err
	}
	i := f.readerIndex(id)
	if i < 0 {
		return notFound("/lectores/{id}")
	}
	f.readers = append(f.readers[:i], f.readers[i+1:]...)
	for j := range f.records {
		if f.records[j].Lector != nil && f.records[j].Lector.ID == id {
			f.records[j].Lector = nil
		}
	}
	return nil
}

func (f *FakeAPI) readerIndex(id int64) int {
	for i := range f.readers {
		if f.readers[i].ID == id {
			return i
		}
	}
	return -1
}

// ========================================
// Records
// ========================================

// ListRecords implements client.AccessAPI.
func (f *FakeAPI) ListRecords(_ context.Context) ([]models.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodListRecords); err != nil {
		return nil, err
	}
	return append([]models.RawRecord{}, f.records...), nil
}

func (f *FakeAPI) filterRecords(keep func(models.RawRecord) bool) []models.RawRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.RawRecord{}
	for _, r := range f.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// RecordsByUser implements client.AccessAPI.
func (f *FakeAPI) RecordsByUser(_ context.Context, userID int64) ([]models.RawRecord, error) {
	return f.filterRecords(func(r models.RawRecord) bool {
		return r.Usuario != nil && r.Usuario.ID == userID
	}), nil
}

// RecordsByReader implements client.AccessAPI.
func (f *FakeAPI) RecordsByReader(_ context.Context, readerID int64) ([]models.RawRecord, error) {
	return f.filterRecords(func(r models.RawRecord) bool {
		return r.Lector != nil && r.Lector.ID == readerID
	}), nil
}

// RecordsByDate implements client.AccessAPI.
func (f *FakeAPI) RecordsByDate(_ context.Context, date string) ([]models.RawRecord, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, client.ErrInvalidDate
	}
	return f.filterRecords(func(r models.RawRecord) bool {
		return r.FechaHora.Date() == date
	}), nil
}

// CreateRecord implements client.AccessAPI.
func (f *FakeAPI) CreateRecord(_ context.Context, draft models.RecordDraft) (*models.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodCreateRecord); err != nil {
		return nil, err
	}

	ui := f.userIndex(draft.UsuarioID)
	if ui < 0 {
		return nil, notFound("/registros")
	}
	ri := f.readerIndex(draft.LectorID)
	if ri < 0 {
		return nil, notFound("/registros")
	}
	return f.appendRecord(f.users[ui], f.readers[ri], draft.TipoMovimiento)
}

// ScanTag implements client.AccessAPI.
func (f *FakeAPI) ScanTag(_ context.Context, scan models.TagScan) (*models.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodScanTag); err != nil {
		return nil, err
	}

	ri := f.readerIndex(scan.LectorID)
	if ri < 0 {
		return nil, notFound("/registros/rfid")
	}
	for _, u := range f.users {
		if u.RfidTag != nil && strings.EqualFold(*u.RfidTag, scan.RfidTag) {
			return f.appendRecord(u, f.readers[ri], "")
		}
	}
	f.unknownTag = strings.ToUpper(scan.RfidTag)
	return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Tag no registrado", Method: "POST", Path: "/registros/rfid"}
}

// appendRecord applies the backend rules for a new record. Caller holds mu.
func (f *FakeAPI) appendRecord(user models.User, reader models.Reader, movement models.Movement) (*models.RawRecord, error) {
	if !user.Estado.IsActive() {
		return nil, &client.APIError{StatusCode: http.StatusForbidden, Message: "Usuario inactivo", Method: "POST", Path: "/registros"}
	}
	if movement == "" {
		movement = models.MovementEntry
		for i := len(f.records) - 1; i >= 0; i-- {
			if f.records[i].Usuario != nil && f.records[i].Usuario.ID == user.ID {
				if f.records[i].TipoMovimiento.Is(models.MovementEntry) {
					movement = models.MovementExit
				}
				break
			}
		}
	}

	now := f.Now()
	ts := models.Timestamp{Time: now, Raw: now.Format("2006-01-02T15:04:05")}
	rec := models.RawRecord{
		ID:             f.allocID(),
		Usuario:        &user,
		Lector:         &reader,
		TipoMovimiento: movement,
		FechaHora:      ts,
	}
	f.records = append(f.records, rec)
	out := rec
	return &out, nil
}

// LastUnknownTag implements client.AccessAPI.
func (f *FakeAPI) LastUnknownTag(_ context.Context) (models.UnknownTag, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(MethodLastUnknownTag); err != nil {
		return models.UnknownTag{}, false, err
	}
	if f.unknownTag == "" {
		return models.UnknownTag{}, false, nil
	}
	return models.UnknownTag{RfidTag: f.unknownTag}, true, nil
}
