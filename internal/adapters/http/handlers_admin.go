package web

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"radioclub/internal/adapters/http/middleware"
	"radioclub/internal/adapters/http/perf"
	"radioclub/internal/adapters/spreadsheet"
	registrationStore "radioclub/internal/adapters/storage/registration"
	"radioclub/internal/application/listutil"
	"radioclub/internal/application/orchestrators"
	"radioclub/internal/application/projections"
	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// perfWindow is how far back the admin page aggregates request timings.
const perfWindow = time.Hour

// handleAdmin renders both flags, roster statistics and recent activity (GET /admin)
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	dash, err := projections.QueryGetAdminDashboard(r.Context(), projections.GetAdminDashboardDeps{
		RegistrationStore: stores.RegistrationStore,
		FlagStore:         stores.FeatureFlagStore,
		AuditStore:        stores.AuditStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	var snap perf.Snapshot
	if perfCollector != nil {
		snap = perfCollector.Snapshot(timeNow().Add(-perfWindow), 5)
	}

	renderTemplate(w, r, http.StatusOK, "admin.html", map[string]any{
		"Dashboard": dash,
		"Perf":      snap,
		"Flash":     middleware.PopFlash(w, r),
	})
}

// handleAdminToggle flips one flag (POST /admin)
// PRE: form carries "toggle" (registration) or "toggle_edit" (editing)
// POST: exactly one flag flipped; redirects to GET /admin
func handleAdminToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var key string
	switch {
	case r.PostForm.Has("toggle"):
		key = featureflag.KeyRegistration
	case r.PostForm.Has("toggle_edit"):
		key = featureflag.KeyEdit
	default:
		http.Error(w, "Bad Request - nothing to toggle", http.StatusBadRequest)
		return
	}

	flag, err := orchestrators.ExecuteToggleFlag(r.Context(),
		orchestrators.ToggleFlagInput{Key: key, Actor: actorFromRequest(r)},
		orchestrators.ToggleFlagDeps{FlagStore: stores.FeatureFlagStore, AuditStore: stores.AuditStore, Now: timeNow})
	if err != nil {
		internalError(w, err)
		return
	}

	label := "Registration"
	if key == featureflag.KeyEdit {
		label = "Editing"
	}
	state := "closed"
	if flag.Enabled() {
		state = "open"
	}
	middleware.SetFlash(w, label+" is now "+state+".")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleDownload streams the roster workbook (GET /download)
// POST: attachment named radio_club_YYYYMMDD.xlsx; rows ordered by choice
func handleDownload(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	res, err := orchestrators.ExecuteExportRegistrations(r.Context(), &buf, actorFromRequest(r), orchestrators.ExportRegistrationsDeps{
		RegistrationStore: stores.RegistrationStore,
		Writer:            exportWriter,
		AuditStore:        stores.AuditStore,
		Now:               timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// handlePreview lists every registration (GET /preview)
// PRE: optional query sort, dir, q
func handlePreview(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), registrationStore.SortColumns)
	res, err := projections.QueryGetPreview(r.Context(),
		projections.GetPreviewQuery{ListParams: lp},
		projections.GetPreviewDeps{RegistrationStore: stores.RegistrationStore})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, http.StatusOK, "preview.html", map[string]any{
		"Preview": res,
		"Flash":   middleware.PopFlash(w, r),
	})
}

// handleDeleteOne removes one registration (POST /delete_one)
// PRE: form field stu_id
// POST: 404 when no such record; otherwise redirects to /preview with a flash
func handleDeleteOne(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	studentID := r.PostFormValue("stu_id")

	err := orchestrators.ExecuteDeleteRegistration(r.Context(),
		orchestrators.DeleteRegistrationInput{StudentID: studentID, Actor: actorFromRequest(r)},
		orchestrators.DeleteRegistrationDeps{RegistrationStore: stores.RegistrationStore, AuditStore: stores.AuditStore, Now: timeNow})
	if errors.Is(err, registration.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	prefill.Forget(registration.NormalizeStudentID(studentID))
	middleware.SetFlash(w, "Deleted one record.")
	http.Redirect(w, r, "/preview", http.StatusSeeOther)
}

// handleDeleteAll removes every registration (POST /delete_all)
// POST: the roster is empty; redirects to /preview with a flash
func handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := orchestrators.ExecuteDeleteAllRegistrations(r.Context(), actorFromRequest(r),
		orchestrators.DeleteRegistrationDeps{RegistrationStore: stores.RegistrationStore, AuditStore: stores.AuditStore, Now: timeNow})
	if err != nil {
		internalError(w, err)
		return
	}

	prefill.Clear()
	middleware.SetFlash(w, fmt.Sprintf("Cleared all data (%d records).", n))
	http.Redirect(w, r, "/preview", http.StatusSeeOther)
}
