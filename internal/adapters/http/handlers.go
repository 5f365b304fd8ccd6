package web

import (
	"errors"
	"net/http"

	"radioclub/internal/adapters/http/middleware"
	"radioclub/internal/application/orchestrators"
	"radioclub/internal/domain/featureflag"
	"radioclub/internal/domain/registration"
)

// User-facing messages for the applicant pages.
const (
	msgCreated       = "Registration successful!"
	msgUpdated       = "Your registration has been updated."
	msgNameMismatch  = "This student ID has already been registered under another name. If this was not you, please contact the club administrator."
	msgMissingName   = "Please enter your name."
	msgMissingStuID  = "Please enter your student ID."
	msgEditNotFound  = "No registration found. Please check your name and student ID."
	msgEditMismatch  = "Name and student ID do not match; the registration cannot be edited."
	msgEditMissingID = "Please enter your name and student ID."
)

// formValues echoes a registration back into the form.
type formValues struct {
	Name         string
	StudentID    string
	MajorClass   string
	FirstChoice  string
	SecondChoice string
	Intro        string
}

func formValuesOf(r registration.Registration) formValues {
	return formValues{
		Name:         r.Name,
		StudentID:    r.StudentID,
		MajorClass:   r.MajorClass,
		FirstChoice:  r.FirstChoice,
		SecondChoice: r.SecondChoice,
		Intro:        r.Intro,
	}
}

// formPage is the data for form.html.
type formPage struct {
	Closed   bool
	EditOpen bool
	Already  bool // the form shows an existing registration
	Msg      string
	MsgKind  string // "ok" or "error"
	Form     formValues
	Choices  []string
	Notice   string
	MaxIntro int
}

func newFormPage(r *http.Request) (formPage, error) {
	editOpen, err := stores.FeatureFlagStore.IsEnabled(r.Context(), featureflag.KeyEdit)
	if err != nil {
		return formPage{}, err
	}
	return formPage{
		EditOpen: editOpen,
		Choices:  appConfig.Choices,
		Notice:   appConfig.Notice,
		MaxIntro: registration.MaxIntroLength,
	}, nil
}

// handleFormPage renders the registration form (GET /)
// POST: renders the closed view, a pre-filled form for a remembered browser, or a blank form
func handleFormPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := newFormPage(r)
	if err != nil {
		internalError(w, err)
		return
	}

	open, err := stores.FeatureFlagStore.IsEnabled(ctx, featureflag.KeyRegistration)
	if err != nil {
		internalError(w, err)
		return
	}
	if !open {
		renderTemplate(w, r, http.StatusOK, "form.html", formPage{Closed: true})
		return
	}

	if studentID, ok := prefill.Lookup(r); ok {
		rec, err := stores.RegistrationStore.GetByStudentID(ctx, studentID)
		switch {
		case err == nil:
			page.Already = true
			page.Form = formValuesOf(rec)
		case !errors.Is(err, registration.ErrNotFound):
			internalError(w, err)
			return
		}
	}
	renderTemplate(w, r, http.StatusOK, "form.html", page)
}

// handleSubmit creates or updates a registration (POST /)
// PRE: form fields name, stu_id, major_class, first, second, intro
// POST: store mutated only when registration is open and the name matches
func handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	input := orchestrators.SubmitRegistrationInput{
		Name:         r.PostFormValue("name"),
		StudentID:    r.PostFormValue("stu_id"),
		MajorClass:   r.PostFormValue("major_class"),
		FirstChoice:  r.PostFormValue("first"),
		SecondChoice: r.PostFormValue("second"),
		Intro:        r.PostFormValue("intro"),
	}

	res, err := orchestrators.ExecuteSubmitRegistration(r.Context(), input, orchestrators.SubmitRegistrationDeps{
		RegistrationStore: stores.RegistrationStore,
		FlagStore:         stores.FeatureFlagStore,
		Notifier:          notifier,
		Now:               timeNow,
	})
	if errors.Is(err, registration.ErrRegistrationClosed) {
		renderTemplate(w, r, http.StatusOK, "form.html", formPage{Closed: true})
		return
	}

	page, perr := newFormPage(r)
	if perr != nil {
		internalError(w, perr)
		return
	}
	page.Form = formValues{
		Name:         input.Name,
		StudentID:    input.StudentID,
		MajorClass:   input.MajorClass,
		FirstChoice:  input.FirstChoice,
		SecondChoice: input.SecondChoice,
		Intro:        input.Intro,
	}
	page.MsgKind = "error"

	switch {
	case errors.Is(err, registration.ErrNameMismatch):
		page.Msg = msgNameMismatch
		renderTemplate(w, r, http.StatusConflict, "form.html", page)
		return
	case errors.Is(err, registration.ErrMissingName):
		page.Msg = msgMissingName
		renderTemplate(w, r, http.StatusBadRequest, "form.html", page)
		return
	case errors.Is(err, registration.ErrMissingStudentID):
		page.Msg = msgMissingStuID
		renderTemplate(w, r, http.StatusBadRequest, "form.html", page)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	if err := prefill.Remember(w, r, res.Registration.StudentID); err != nil {
		internalError(w, err)
		return
	}
	page.Already = true
	page.Form = formValuesOf(res.Registration)
	page.MsgKind = "ok"
	page.Msg = msgCreated
	if res.Outcome == registration.OutcomeUpdated {
		page.Msg = msgUpdated
	}
	renderTemplate(w, r, http.StatusOK, "form.html", page)
}

// editPage is the data for edit.html and edit_form.html.
type editPage struct {
	Closed     bool
	EditClosed bool
	Msg        string
	Name       string
	StudentID  string
	Form       formValues
	Choices    []string
	MaxIntro   int
}

// renderEditGate renders the closed views and reports whether it did.
func renderEditGate(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case errors.Is(err, registration.ErrRegistrationClosed):
		renderTemplate(w, r, http.StatusOK, "edit.html", editPage{Closed: true})
	case errors.Is(err, registration.ErrEditClosed):
		renderTemplate(w, r, http.StatusOK, "edit.html", editPage{EditClosed: true})
	case err != nil:
		internalError(w, err)
	default:
		return false
	}
	return true
}

// handleEditPage renders the name + student id lookup (GET /edit)
func handleEditPage(w http.ResponseWriter, r *http.Request) {
	if renderEditGate(w, r, orchestrators.CheckEditGates(r.Context(), stores.FeatureFlagStore)) {
		return
	}
	renderTemplate(w, r, http.StatusOK, "edit.html", editPage{})
}

// handleEditLookup verifies the identity pair and shows the edit form (POST /edit)
// PRE: form fields name, stu_id
// INVARIANT: never mutates the store; the edit form posts back to /
func handleEditLookup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	studentID := r.PostFormValue("stu_id")

	rec, err := orchestrators.ExecuteLookupForEdit(r.Context(),
		orchestrators.LookupForEditInput{Name: name, StudentID: studentID},
		orchestrators.LookupForEditDeps{RegistrationStore: stores.RegistrationStore, FlagStore: stores.FeatureFlagStore})
	if renderEditGate(w, r, gateError(err)) {
		return
	}

	page := editPage{Name: name, StudentID: studentID}
	switch {
	case errors.Is(err, registration.ErrNotFound):
		page.Msg = msgEditNotFound
		if name == "" || studentID == "" {
			page.Msg = msgEditMissingID
		}
		renderTemplate(w, r, http.StatusNotFound, "edit.html", page)
		return
	case errors.Is(err, registration.ErrNameMismatch):
		page.Msg = msgEditMismatch
		renderTemplate(w, r, http.StatusForbidden, "edit.html", page)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	renderTemplate(w, r, http.StatusOK, "edit_form.html", editPage{
		Form:     formValuesOf(rec),
		Choices:  appConfig.Choices,
		MaxIntro: registration.MaxIntroLength,
	})
}

// gateError keeps only errors renderEditGate handles; lookup outcomes pass through as nil.
func gateError(err error) error {
	if errors.Is(err, registration.ErrNotFound) || errors.Is(err, registration.ErrNameMismatch) {
		return nil
	}
	return err
}

// actorFromRequest identifies the admin for the audit trail.
func actorFromRequest(r *http.Request) orchestrators.Actor {
	name, _ := middleware.AdminFromContext(r.Context())
	return orchestrators.Actor{
		Name:      name,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}
